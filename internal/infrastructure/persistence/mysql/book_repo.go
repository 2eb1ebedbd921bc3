package mysql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/locallibrary/internal/domain/book"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 图书行与book_genres关联行在同一事务里写入
// 2. 写入前在事务内校验作者、类别是否存在,给出带字段的校验错误
// 3. 外键约束兜底:校验之后被并发删除的引用会让INSERT失败,同样转换为校验错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := toBookModel(b)
	model.ID = uuid.NewString()

	// 2. 校验引用 + 插入图书 + 插入类别关联
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := checkBookRefs(tx, b.AuthorID, b.GenreIDs); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return writeError(err, "创建图书失败")
		}
		return insertBookGenres(tx, model.ID, b.GenreIDs)
	})
	if err != nil {
		return err
	}

	// 3. 回填ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	db := getDB(ctx, r.db)

	var model BookModel
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, translateError(err, "查询图书失败")
	}

	books, err := attachGenres(db, []BookModel{model})
	if err != nil {
		return nil, err
	}
	return books[0], nil
}

// FindByIDs 批量查找
func (r *bookRepository) FindByIDs(ctx context.Context, ids []string) ([]*book.Book, error) {
	if len(ids) == 0 {
		return []*book.Book{}, nil
	}
	db := getDB(ctx, r.db)

	var models []BookModel
	if err := db.Where("id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		return nil, translateError(err, "批量查询图书失败")
	}
	return attachGenres(db, models)
}

// List 查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, error) {
	sortBy := params.SortBy
	if !book.IsSortable(sortBy) {
		sortBy = ""
	}
	db := getDB(ctx, r.db)

	var models []BookModel
	err := applyBookFilter(db.Model(&BookModel{}), params.Filter).
		Order(orderClause(sortBy, params.Desc)).
		Find(&models).Error
	if err != nil {
		return nil, translateError(err, "查询图书列表失败")
	}
	return attachGenres(db, models)
}

// Update 全量替换图书,类别关联先删后插
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		// 1. 确认图书存在
		var n int64
		if err := tx.Model(&BookModel{}).Where("id = ?", b.ID).Count(&n).Error; err != nil {
			return translateError(err, "查询图书失败")
		}
		if n == 0 {
			return book.ErrBookNotFound
		}

		// 2. 校验引用
		if err := checkBookRefs(tx, b.AuthorID, b.GenreIDs); err != nil {
			return err
		}

		// 3. 更新全部字段
		err := tx.Model(&BookModel{}).
			Where("id = ?", b.ID).
			Select("title", "author_id", "summary", "isbn", "updated_at").
			Updates(model).Error
		if err != nil {
			return writeError(err, "更新图书失败")
		}

		// 4. 替换类别关联
		if err := tx.Where("book_id = ?", b.ID).Delete(&BookGenreModel{}).Error; err != nil {
			return translateError(err, "更新图书类别失败")
		}
		return insertBookGenres(tx, b.ID, b.GenreIDs)
	})
}

// Count 按条件统计图书数量
func (r *bookRepository) Count(ctx context.Context, filter book.Filter) (int64, error) {
	var total int64
	query := applyBookFilter(getDB(ctx, r.db).Model(&BookModel{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return 0, translateError(err, "统计图书数量失败")
	}
	return total, nil
}

// DeleteUnreferenced 没有馆藏副本时删除图书及其类别关联
func (r *bookRepository) DeleteUnreferenced(ctx context.Context, id string) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Exec(
			"DELETE FROM books WHERE id = ? AND NOT EXISTS (SELECT 1 FROM book_instances WHERE book_instances.book_id = ?)",
			id, id,
		)
		if result.Error != nil {
			if isForeignKeyError(result.Error) {
				return book.ErrBookReferenced
			}
			return translateError(result.Error, "删除图书失败")
		}

		if result.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&BookModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return translateError(err, "查询图书失败")
			}
			if n == 0 {
				return book.ErrBookNotFound
			}
			return book.ErrBookReferenced
		}

		// 外键已级联删除时这里是空操作
		if err := tx.Where("book_id = ?", id).Delete(&BookGenreModel{}).Error; err != nil {
			return translateError(err, "删除图书类别失败")
		}
		return nil
	})
}

// =========================================
// 辅助函数
// =========================================

// checkBookRefs 校验作者和类别都存在
func checkBookRefs(tx *gorm.DB, authorID string, genreIDs []string) error {
	var n int64
	if err := tx.Model(&AuthorModel{}).Where("id = ?", authorID).Count(&n).Error; err != nil {
		return translateError(err, "查询作者失败")
	}
	if n == 0 {
		return book.ErrAuthorMissing
	}

	if len(genreIDs) == 0 {
		return nil
	}
	var found []string
	if err := tx.Model(&GenreModel{}).Where("id IN ?", genreIDs).Pluck("id", &found).Error; err != nil {
		return translateError(err, "查询类别失败")
	}
	if len(found) == len(genreIDs) {
		return nil
	}

	exists := make(map[string]struct{}, len(found))
	for _, id := range found {
		exists[id] = struct{}{}
	}
	var missing []string
	for _, id := range genreIDs {
		if _, ok := exists[id]; !ok {
			missing = append(missing, id)
		}
	}
	return book.GenresMissing(missing)
}

func insertBookGenres(tx *gorm.DB, bookID string, genreIDs []string) error {
	if len(genreIDs) == 0 {
		return nil
	}
	links := make([]BookGenreModel, len(genreIDs))
	for i, gid := range genreIDs {
		links[i] = BookGenreModel{BookID: bookID, GenreID: gid}
	}
	if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
		return writeError(err, "保存图书类别失败")
	}
	return nil
}

// attachGenres 一次查询补齐所有图书的类别ID
func attachGenres(db *gorm.DB, models []BookModel) ([]*book.Book, error) {
	books := make([]*book.Book, len(models))
	if len(models) == 0 {
		return books, nil
	}

	ids := make([]string, len(models))
	for i := range models {
		ids[i] = models[i].ID
	}
	var links []BookGenreModel
	err := db.Where("book_id IN ?", ids).Order("genre_id ASC").Find(&links).Error
	if err != nil {
		return nil, translateError(err, "查询图书类别失败")
	}
	byBook := make(map[string][]string, len(models))
	for _, l := range links {
		byBook[l.BookID] = append(byBook[l.BookID], l.GenreID)
	}

	for i := range models {
		books[i] = toBookEntity(&models[i], byBook[models[i].ID])
	}
	return books, nil
}

func applyBookFilter(query *gorm.DB, f book.Filter) *gorm.DB {
	if f.AuthorID != "" {
		query = query.Where("author_id = ?", f.AuthorID)
	}
	if f.GenreID != "" {
		query = query.Where("id IN (SELECT book_id FROM book_genres WHERE genre_id = ?)", f.GenreID)
	}
	return query
}

// writeError 写入时的外键冲突说明引用在校验之后被删除了
func writeError(err error, message string) error {
	if isForeignKeyError(err) {
		return apperrors.ErrInvalidReference.WithErr(err)
	}
	return translateError(err, message)
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:        b.ID,
		Title:     b.Title,
		AuthorID:  b.AuthorID,
		Summary:   b.Summary,
		ISBN:      b.ISBN,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel, genreIDs []string) *book.Book {
	if genreIDs == nil {
		genreIDs = []string{}
	}
	return &book.Book{
		ID:        model.ID,
		Title:     model.Title,
		AuthorID:  model.AuthorID,
		Summary:   model.Summary,
		ISBN:      model.ISBN,
		GenreIDs:  genreIDs,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
