package mysql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
)

// bookInstanceRepository 馆藏副本仓储实现
type bookInstanceRepository struct {
	db *gorm.DB
}

// NewBookInstanceRepository 创建馆藏副本仓储
func NewBookInstanceRepository(db *gorm.DB) bookinstance.Repository {
	return &bookInstanceRepository{db: db}
}

// Create 创建副本
func (r *bookInstanceRepository) Create(ctx context.Context, inst *bookinstance.BookInstance) error {
	model := toInstanceModel(inst)
	model.ID = uuid.NewString()

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := checkInstanceBook(tx, inst.BookID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			if isForeignKeyError(err) {
				return bookinstance.ErrBookMissing
			}
			return translateError(err, "创建馆藏副本失败")
		}
		return nil
	})
	if err != nil {
		return err
	}

	inst.ID = model.ID
	inst.CreatedAt = model.CreatedAt
	inst.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找副本
func (r *bookInstanceRepository) FindByID(ctx context.Context, id string) (*bookinstance.BookInstance, error) {
	var model BookInstanceModel
	err := getDB(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookinstance.ErrInstanceNotFound
		}
		return nil, translateError(err, "查询馆藏副本失败")
	}
	return toInstanceEntity(&model), nil
}

// List 查询副本列表
func (r *bookInstanceRepository) List(ctx context.Context, params bookinstance.ListParams) ([]*bookinstance.BookInstance, error) {
	sortBy := params.SortBy
	if !bookinstance.IsSortable(sortBy) {
		sortBy = ""
	}

	var models []BookInstanceModel
	err := applyInstanceFilter(getDB(ctx, r.db).Model(&BookInstanceModel{}), params.Filter).
		Order(orderClause(sortBy, params.Desc)).
		Find(&models).Error
	if err != nil {
		return nil, translateError(err, "查询馆藏副本列表失败")
	}

	out := make([]*bookinstance.BookInstance, len(models))
	for i := range models {
		out[i] = toInstanceEntity(&models[i])
	}
	return out, nil
}

// Update 全量替换副本
func (r *bookInstanceRepository) Update(ctx context.Context, inst *bookinstance.BookInstance) error {
	model := toInstanceModel(inst)

	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&BookInstanceModel{}).Where("id = ?", inst.ID).Count(&n).Error; err != nil {
			return translateError(err, "查询馆藏副本失败")
		}
		if n == 0 {
			return bookinstance.ErrInstanceNotFound
		}
		if err := checkInstanceBook(tx, inst.BookID); err != nil {
			return err
		}

		err := tx.Model(&BookInstanceModel{}).
			Where("id = ?", inst.ID).
			Select("book_id", "imprint", "status", "due_back", "updated_at").
			Updates(model).Error
		if err != nil {
			if isForeignKeyError(err) {
				return bookinstance.ErrBookMissing
			}
			return translateError(err, "更新馆藏副本失败")
		}
		return nil
	})
}

// Count 按条件统计副本数量
func (r *bookInstanceRepository) Count(ctx context.Context, filter bookinstance.Filter) (int64, error) {
	var total int64
	query := applyInstanceFilter(getDB(ctx, r.db).Model(&BookInstanceModel{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return 0, translateError(err, "统计馆藏副本数量失败")
	}
	return total, nil
}

// Delete 删除副本
func (r *bookInstanceRepository) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&BookInstanceModel{})
	if result.Error != nil {
		return translateError(result.Error, "删除馆藏副本失败")
	}
	if result.RowsAffected == 0 {
		return bookinstance.ErrInstanceNotFound
	}
	return nil
}

func checkInstanceBook(tx *gorm.DB, bookID string) error {
	var n int64
	if err := tx.Model(&BookModel{}).Where("id = ?", bookID).Count(&n).Error; err != nil {
		return translateError(err, "查询图书失败")
	}
	if n == 0 {
		return bookinstance.ErrBookMissing
	}
	return nil
}

func applyInstanceFilter(query *gorm.DB, f bookinstance.Filter) *gorm.DB {
	if f.BookID != "" {
		query = query.Where("book_id = ?", f.BookID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", string(f.Status))
	}
	return query
}

func toInstanceModel(inst *bookinstance.BookInstance) *BookInstanceModel {
	return &BookInstanceModel{
		ID:        inst.ID,
		BookID:    inst.BookID,
		Imprint:   inst.Imprint,
		Status:    string(inst.Status),
		DueBack:   inst.DueBack,
		CreatedAt: inst.CreatedAt,
		UpdatedAt: inst.UpdatedAt,
	}
}

// toInstanceEntity GORM模型 → 领域实体
func toInstanceEntity(model *BookInstanceModel) *bookinstance.BookInstance {
	return &bookinstance.BookInstance{
		ID:        model.ID,
		BookID:    model.BookID,
		Imprint:   model.Imprint,
		Status:    bookinstance.Status(model.Status),
		DueBack:   model.DueBack,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
