package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
	"github.com/xiebiao/locallibrary/pkg/fanout"
)

// Summary 首页统计:五个计数并发读取
// 启用缓存时先查缓存,缓存故障时降级为直接查库
// 回填使用计数之前读到的版本,计数期间发生的写入会让这次回填失效
func (s *Service) Summary(ctx context.Context) (*catalogdomain.Summary, error) {
	if s.cache == nil {
		return call(ctx, s, "summary", s.countAll)
	}

	cached, version, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warn("读取统计缓存失败", zap.Error(err))
		return call(ctx, s, "summary", s.countAll)
	}
	if cached != nil {
		return cached, nil
	}

	sum, err := call(ctx, s, "summary", s.countAll)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, version, sum); err != nil {
		s.log.Warn("写入统计缓存失败", zap.Int64("version", version), zap.Error(err))
	}
	return sum, nil
}

func (s *Service) countAll(ctx context.Context) (*catalogdomain.Summary, error) {
	res, err := fanout.RunAll(ctx, map[string]fanout.Task{
		"books": func(ctx context.Context) (any, error) {
			return s.books.Count(ctx, book.Filter{})
		},
		"instances": func(ctx context.Context) (any, error) {
			return s.instances.Count(ctx, bookinstance.Filter{})
		},
		"available": func(ctx context.Context) (any, error) {
			return s.instances.Count(ctx, bookinstance.Filter{Status: bookinstance.StatusAvailable})
		},
		"authors": func(ctx context.Context) (any, error) { return s.authors.Count(ctx) },
		"genres":  func(ctx context.Context) (any, error) { return s.genres.Count(ctx) },
	})
	if err != nil {
		return nil, err
	}
	return &catalogdomain.Summary{
		BookCount:              fanout.Get[int64](res, "books"),
		BookInstanceCount:      fanout.Get[int64](res, "instances"),
		BookInstanceAvailCount: fanout.Get[int64](res, "available"),
		AuthorCount:            fanout.Get[int64](res, "authors"),
		GenreCount:             fanout.Get[int64](res, "genres"),
	}, nil
}
