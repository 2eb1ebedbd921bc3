package mysql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xiebiao/locallibrary/internal/domain/genre"
)

// genreRepository 类别仓储实现
type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository 创建类别仓储
func NewGenreRepository(db *gorm.DB) genre.Repository {
	return &genreRepository{db: db}
}

// Create 按名称幂等创建
// 教学要点:
// 1. 先按名称查,命中直接返回已有记录
// 2. 未命中再插入;两个请求同时插入时唯一索引只放行一个,
//    失败的一方重新按名称查询,拿到胜出方的记录
func (r *genreRepository) Create(ctx context.Context, g *genre.Genre) (bool, error) {
	existing, err := r.FindByName(ctx, g.Name)
	if err == nil {
		*g = *existing
		return true, nil
	}
	if !errors.Is(err, genre.ErrGenreNotFound) {
		return false, err
	}

	model := &GenreModel{
		ID:        uuid.NewString(),
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			existing, findErr := r.FindByName(ctx, g.Name)
			if findErr != nil {
				return false, findErr
			}
			*g = *existing
			return true, nil
		}
		return false, translateError(err, "创建类别失败")
	}

	*g = *toGenreEntity(model)
	return false, nil
}

// FindByID 根据ID查找类别
func (r *genreRepository) FindByID(ctx context.Context, id string) (*genre.Genre, error) {
	var model GenreModel
	err := getDB(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genre.ErrGenreNotFound
		}
		return nil, translateError(err, "查询类别失败")
	}
	return toGenreEntity(&model), nil
}

// FindByIDs 批量查找
func (r *genreRepository) FindByIDs(ctx context.Context, ids []string) ([]*genre.Genre, error) {
	if len(ids) == 0 {
		return []*genre.Genre{}, nil
	}
	var models []GenreModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		return nil, translateError(err, "批量查询类别失败")
	}
	return toGenreEntities(models), nil
}

// FindByName 按名称查找
func (r *genreRepository) FindByName(ctx context.Context, name string) (*genre.Genre, error) {
	var model GenreModel
	err := getDB(ctx, r.db).Where("name = ?", genre.NormalizeName(name)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genre.ErrGenreNotFound
		}
		return nil, translateError(err, "查询类别失败")
	}
	return toGenreEntity(&model), nil
}

// List 查询类别列表
func (r *genreRepository) List(ctx context.Context, params genre.ListParams) ([]*genre.Genre, error) {
	sortBy := params.SortBy
	if !genre.IsSortable(sortBy) {
		sortBy = ""
	}

	query := getDB(ctx, r.db).Model(&GenreModel{})
	if params.Name != "" {
		query = query.Where("name = ?", genre.NormalizeName(params.Name))
	}

	var models []GenreModel
	if err := query.Order(orderClause(sortBy, params.Desc)).Find(&models).Error; err != nil {
		return nil, translateError(err, "查询类别列表失败")
	}
	return toGenreEntities(models), nil
}

// Update 更新类别名称
func (r *genreRepository) Update(ctx context.Context, g *genre.Genre) error {
	result := getDB(ctx, r.db).Model(&GenreModel{}).
		Where("id = ?", g.ID).
		Select("name", "updated_at").
		Updates(&GenreModel{Name: g.Name, UpdatedAt: g.UpdatedAt})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return genre.ErrNameDuplicate
		}
		return translateError(result.Error, "更新类别失败")
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, g.ID); err != nil {
			return err
		}
	}
	return nil
}

// Count 统计类别数量
func (r *genreRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := getDB(ctx, r.db).Model(&GenreModel{}).Count(&total).Error; err != nil {
		return 0, translateError(err, "统计类别数量失败")
	}
	return total, nil
}

// DeleteUnreferenced 条件删除:book_genres中没有关联行时才删除
func (r *genreRepository) DeleteUnreferenced(ctx context.Context, id string) error {
	db := getDB(ctx, r.db)
	result := db.Exec(
		"DELETE FROM genres WHERE id = ? AND NOT EXISTS (SELECT 1 FROM book_genres WHERE book_genres.genre_id = ?)",
		id, id,
	)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return genre.ErrGenreReferenced
		}
		return translateError(result.Error, "删除类别失败")
	}

	if result.RowsAffected == 0 {
		var n int64
		if err := db.Model(&GenreModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return translateError(err, "查询类别失败")
		}
		if n == 0 {
			return genre.ErrGenreNotFound
		}
		return genre.ErrGenreReferenced
	}
	return nil
}

// toGenreEntity GORM模型 → 领域实体
func toGenreEntity(model *GenreModel) *genre.Genre {
	return &genre.Genre{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toGenreEntities(models []GenreModel) []*genre.Genre {
	out := make([]*genre.Genre, len(models))
	for i := range models {
		out[i] = toGenreEntity(&models[i])
	}
	return out
}
