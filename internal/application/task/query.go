package task

import (
	"context"

	"github.com/tasklive/backend/internal/domain/task"
)

// fetchFunc 执行一次查询
type fetchFunc func(ctx context.Context) ([]*task.Task, error)

// composeQuery 根据筛选类型与搜索词选择查询
//
//	            search == ""              search != ""
//	all         FindAll                   Search(q)
//	completed   FindByCompletion(true)    Search(q) 中已完成的
//	pending     FindByCompletion(false)   Search(q) 中未完成的
func composeQuery(repo task.Repository, filter task.FilterType, search string) fetchFunc {
	if search == "" {
		switch filter {
		case task.FilterCompleted:
			return func(ctx context.Context) ([]*task.Task, error) {
				return repo.FindByCompletion(ctx, true)
			}
		case task.FilterPending:
			return func(ctx context.Context) ([]*task.Task, error) {
				return repo.FindByCompletion(ctx, false)
			}
		default:
			return repo.FindAll
		}
	}

	if filter == task.FilterAll {
		return func(ctx context.Context) ([]*task.Task, error) {
			return repo.Search(ctx, search)
		}
	}

	return func(ctx context.Context) ([]*task.Task, error) {
		matched, err := repo.Search(ctx, search)
		if err != nil {
			return nil, err
		}
		narrowed := make([]*task.Task, 0, len(matched))
		for _, t := range matched {
			if filter.Match(*t) {
				narrowed = append(narrowed, t)
			}
		}
		return narrowed, nil
	}
}
