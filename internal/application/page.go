package application

import "github.com/oksasatya/user-management-service/internal/domain/repository"

// PageResult is one page of a sorted result set with its navigation metadata.
type PageResult[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}

// NewPageResult derives the metadata from a page request, its content and the total count.
func NewPageResult[T any](content []T, total int64, p repository.PageRequest) PageResult[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if p.Size > 0 {
		totalPages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return PageResult[T]{
		Content:       content,
		PageNumber:    p.Page,
		PageSize:      p.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         p.Page == 0,
		Last:          p.Page >= totalPages-1,
		Empty:         len(content) == 0,
	}
}

// MapPage converts the content of a page while keeping its metadata.
func MapPage[T, R any](in PageResult[T], fn func(T) R) PageResult[R] {
	out := make([]R, 0, len(in.Content))
	for _, v := range in.Content {
		out = append(out, fn(v))
	}
	return PageResult[R]{
		Content:       out,
		PageNumber:    in.PageNumber,
		PageSize:      in.PageSize,
		TotalElements: in.TotalElements,
		TotalPages:    in.TotalPages,
		First:         in.First,
		Last:          in.Last,
		Empty:         in.Empty,
	}
}
