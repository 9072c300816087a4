package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/user-management-service/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// UserIndexer keeps a search projection of users in Elasticsearch,
// driven by change events.
type UserIndexer struct {
	ES    *elasticsearch.Client
	Index string
}

func NewUserIndexer(es *elasticsearch.Client, index string) *UserIndexer {
	return &UserIndexer{ES: es, Index: index}
}

type userDocument struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Apply indexes the snapshot for create/update/status events and removes it on delete.
func (x *UserIndexer) Apply(ctx context.Context, ev entity.UserEvent) error {
	if x == nil || x.ES == nil || x.Index == "" {
		return nil
	}
	if ev.EventType == entity.EventUserDeleted {
		return x.delete(ctx, ev.UserID)
	}
	return x.index(ctx, ev)
}

func (x *UserIndexer) index(ctx context.Context, ev entity.UserEvent) error {
	doc := userDocument{
		ID:        ev.UserID,
		Email:     ev.Email,
		FirstName: ev.FirstName,
		LastName:  ev.LastName,
		FullName:  strings.TrimSpace(ev.FirstName + " " + ev.LastName),
		Role:      string(ev.Role),
		Status:    string(ev.Status),
		UpdatedAt: ev.EventTimestamp,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.Index,
		DocumentID: strconv.FormatInt(ev.UserID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es index user %d: %w", ev.UserID, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index user %d: %s", ev.UserID, res.Status())
	}
	return nil
}

func (x *UserIndexer) delete(ctx context.Context, userID int64) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: strconv.FormatInt(userID, 10)}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es delete user %d: %w", userID, err)
	}
	defer func() { _ = res.Body.Close() }()
	// already gone
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("es delete user %d: %s", userID, res.Status())
	}
	return nil
}
