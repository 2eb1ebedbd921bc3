package catalog

import (
	"context"

	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	catalogdomain "github.com/xiebiao/locallibrary/internal/domain/catalog"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// ListInstances 馆藏副本列表(带图书),默认按应还日期升序
func (s *Service) ListInstances(ctx context.Context, q ListQuery) ([]*catalogdomain.InstanceView, error) {
	params := bookinstance.ListParams{SortBy: bookinstance.SortByDueBack, Desc: q.Desc}
	if q.SortBy != "" {
		if !bookinstance.IsSortable(q.SortBy) {
			return nil, apperrors.ErrInvalidParams.WithField("sort", "不支持的排序字段: "+q.SortBy)
		}
		params.SortBy = q.SortBy
	}
	return call(ctx, s, "bookinstance.list", func(ctx context.Context) ([]*catalogdomain.InstanceView, error) {
		instances, err := s.instances.List(ctx, params)
		if err != nil {
			return nil, err
		}
		return s.resolver.ResolveInstances(ctx, instances)
	})
}

// InstanceDetail 副本详情(副本没有下游依赖)
func (s *Service) InstanceDetail(ctx context.Context, id string) (*catalogdomain.InstanceView, error) {
	return call(ctx, s, "bookinstance.detail", func(ctx context.Context) (*catalogdomain.InstanceView, error) {
		return s.resolvedInstance(ctx, id)
	})
}

// InstanceCreateForm 创建表单:所有图书 + 状态选项
func (s *Service) InstanceCreateForm(ctx context.Context) (*InstanceForm, error) {
	return call(ctx, s, "bookinstance.create_form", func(ctx context.Context) (*InstanceForm, error) {
		books, err := s.books.List(ctx, book.ListParams{SortBy: book.SortByTitle})
		if err != nil {
			return nil, err
		}
		return &InstanceForm{Books: books, Statuses: bookinstance.Statuses}, nil
	})
}

// CreateInstance 创建馆藏副本
func (s *Service) CreateInstance(ctx context.Context, in InstanceInput) (*Saved[*bookinstance.BookInstance], error) {
	in.normalize()
	if err := s.check(&in); err != nil {
		return nil, err
	}
	inst := bookinstance.NewBookInstance(in.BookID, in.Imprint, in.Status, in.DueBack)

	err := s.run(ctx, "bookinstance.create", func(ctx context.Context) error {
		return s.instances.Create(ctx, inst)
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, catalogdomain.KindBookInstance, catalogdomain.ActionCreated, inst.ID)
	return &Saved[*bookinstance.BookInstance]{Record: inst, Path: catalogdomain.Path(catalogdomain.KindBookInstance, inst.ID)}, nil
}

// InstanceUpdateForm 更新表单:当前副本 + 所有图书 + 状态选项
func (s *Service) InstanceUpdateForm(ctx context.Context, id string) (*InstanceForm, error) {
	return call(ctx, s, "bookinstance.update_form", func(ctx context.Context) (*InstanceForm, error) {
		inst, err := s.instances.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		books, err := s.books.List(ctx, book.ListParams{SortBy: book.SortByTitle})
		if err != nil {
			return nil, err
		}
		return &InstanceForm{Instance: inst, Books: books, Statuses: bookinstance.Statuses}, nil
	})
}

// UpdateInstance 全量更新副本
// 未提供status/due_back时回到默认值,不保留旧值
func (s *Service) UpdateInstance(ctx context.Context, id string, in InstanceInput) (*Saved[*bookinstance.BookInstance], error) {
	in.normalize()
	if err := s.check(&in); err != nil {
		return nil, err
	}
	src := bookinstance.NewBookInstance(in.BookID, in.Imprint, in.Status, in.DueBack)

	inst, err := call(ctx, s, "bookinstance.update", func(ctx context.Context) (*bookinstance.BookInstance, error) {
		var out *bookinstance.BookInstance
		err := s.transaction(ctx, func(ctx context.Context) error {
			inst, err := s.instances.FindByID(ctx, id)
			if err != nil {
				return err
			}
			inst.Replace(src)
			if err := s.instances.Update(ctx, inst); err != nil {
				return err
			}
			out = inst
			return nil
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, catalogdomain.KindBookInstance, catalogdomain.ActionUpdated, inst.ID)
	return &Saved[*bookinstance.BookInstance]{Record: inst, Path: catalogdomain.Path(catalogdomain.KindBookInstance, inst.ID)}, nil
}

// InstanceDeleteForm 删除确认页
func (s *Service) InstanceDeleteForm(ctx context.Context, id string) (*catalogdomain.InstanceView, error) {
	return call(ctx, s, "bookinstance.delete_form", func(ctx context.Context) (*catalogdomain.InstanceView, error) {
		return s.resolvedInstance(ctx, id)
	})
}

// DeleteInstance 删除副本,副本没有下游依赖,不会被阻止
func (s *Service) DeleteInstance(ctx context.Context, id string) (*Deletion[catalogdomain.Ref], error) {
	err := s.run(ctx, "bookinstance.delete", func(ctx context.Context) error {
		return s.instances.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, catalogdomain.KindBookInstance, catalogdomain.ActionDeleted, id)
	return &Deletion[catalogdomain.Ref]{Deleted: true, Redirect: catalogdomain.ListPath(catalogdomain.KindBookInstance)}, nil
}

// CanDelete 只读的删除检查,按实体类型分派
func (s *Service) CanDelete(ctx context.Context, kind catalogdomain.Kind, id string) (catalogdomain.Decision[catalogdomain.Ref], error) {
	return call(ctx, s, "can_delete", func(ctx context.Context) (catalogdomain.Decision[catalogdomain.Ref], error) {
		return s.guard.CanDelete(ctx, kind, id)
	})
}

func (s *Service) resolvedInstance(ctx context.Context, id string) (*catalogdomain.InstanceView, error) {
	inst, err := s.instances.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolver.ResolveInstance(ctx, inst)
}
