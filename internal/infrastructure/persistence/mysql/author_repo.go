package mysql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xiebiao/locallibrary/internal/domain/author"
)

// authorRepository 作者仓储实现
// 设计说明:
// 1. 实现domain/author/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 删除使用带NOT EXISTS条件的单条DELETE,检查与删除不可分割
type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) author.Repository {
	return &authorRepository{db: db}
}

// Create 创建作者
func (r *authorRepository) Create(ctx context.Context, a *author.Author) error {
	model := toAuthorModel(a)
	model.ID = uuid.NewString()

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return translateError(err, "创建作者失败")
	}

	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	a.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找作者
func (r *authorRepository) FindByID(ctx context.Context, id string) (*author.Author, error) {
	var model AuthorModel
	err := getDB(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, translateError(err, "查询作者失败")
	}
	return toAuthorEntity(&model), nil
}

// FindByIDs 批量查找
func (r *authorRepository) FindByIDs(ctx context.Context, ids []string) ([]*author.Author, error) {
	if len(ids) == 0 {
		return []*author.Author{}, nil
	}
	var models []AuthorModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		return nil, translateError(err, "批量查询作者失败")
	}
	return toAuthorEntities(models), nil
}

// List 查询作者列表
func (r *authorRepository) List(ctx context.Context, params author.ListParams) ([]*author.Author, error) {
	sortBy := params.SortBy
	if !author.IsSortable(sortBy) {
		sortBy = ""
	}

	var models []AuthorModel
	err := getDB(ctx, r.db).Model(&AuthorModel{}).
		Order(orderClause(sortBy, params.Desc)).
		Find(&models).Error
	if err != nil {
		return nil, translateError(err, "查询作者列表失败")
	}
	return toAuthorEntities(models), nil
}

// Update 全量更新作者
// 显式Select列,保证空值(如清空的去世日期)也会写回
func (r *authorRepository) Update(ctx context.Context, a *author.Author) error {
	model := toAuthorModel(a)
	result := getDB(ctx, r.db).Model(&AuthorModel{}).
		Where("id = ?", a.ID).
		Select("first_name", "family_name", "date_of_birth", "date_of_death", "updated_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error, "更新作者失败")
	}
	// MySQL的RowsAffected只统计实际变化的行,值未变时也可能为0
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, a.ID); err != nil {
			return err
		}
	}
	a.UpdatedAt = model.UpdatedAt
	return nil
}

// Count 统计作者数量
func (r *authorRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := getDB(ctx, r.db).Model(&AuthorModel{}).Count(&total).Error; err != nil {
		return 0, translateError(err, "统计作者数量失败")
	}
	return total, nil
}

// DeleteUnreferenced 条件删除
// DELETE FROM authors WHERE id = ? AND NOT EXISTS (SELECT 1 FROM books WHERE author_id = ?)
// 教学要点:
// 1. 与库存扣减的 UPDATE ... WHERE 条件写法相同,RowsAffected==0时再查一次确定原因
// 2. 并发插入的图书若先提交,外键RESTRICT会让本语句失败,同样按"被引用"处理
func (r *authorRepository) DeleteUnreferenced(ctx context.Context, id string) error {
	db := getDB(ctx, r.db)
	result := db.Exec(
		"DELETE FROM authors WHERE id = ? AND NOT EXISTS (SELECT 1 FROM books WHERE books.author_id = ?)",
		id, id,
	)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return author.ErrAuthorReferenced
		}
		return translateError(result.Error, "删除作者失败")
	}

	if result.RowsAffected == 0 {
		var n int64
		if err := db.Model(&AuthorModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return translateError(err, "查询作者失败")
		}
		if n == 0 {
			return author.ErrAuthorNotFound
		}
		return author.ErrAuthorReferenced
	}
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toAuthorModel(a *author.Author) *AuthorModel {
	return &AuthorModel{
		ID:          a.ID,
		FirstName:   a.FirstName,
		FamilyName:  a.FamilyName,
		DateOfBirth: a.DateOfBirth,
		DateOfDeath: a.DateOfDeath,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// toAuthorEntity GORM模型 → 领域实体
func toAuthorEntity(model *AuthorModel) *author.Author {
	return &author.Author{
		ID:          model.ID,
		FirstName:   model.FirstName,
		FamilyName:  model.FamilyName,
		DateOfBirth: model.DateOfBirth,
		DateOfDeath: model.DateOfDeath,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toAuthorEntities(models []AuthorModel) []*author.Author {
	out := make([]*author.Author, len(models))
	for i := range models {
		out[i] = toAuthorEntity(&models[i])
	}
	return out
}
