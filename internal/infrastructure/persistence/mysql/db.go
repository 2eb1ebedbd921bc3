package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/locallibrary/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明:
// 1. 使用GORM v2作为ORM框架,按database.driver选择方言(mysql | postgres | sqlite)
// 2. 配置连接池参数(MaxOpenConns、MaxIdleConns、ConnMaxLifetime)
// 3. 开发环境开启SQL日志,生产环境关闭
// 4. 自动迁移表结构,外键约束随表一起创建
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	// 1. 选择方言
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	// TranslateError让各方言的唯一键/外键冲突统一为gorm.ErrDuplicatedKey/ErrForeignKeyViolated
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("✓ 数据库连接成功", zap.String("driver", cfg.Database.Driver))

	// 6. 自动迁移表结构
	// 注意:生产环境应使用版本化的迁移脚本
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	}
	return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
}

// autoMigrate 自动迁移表结构
// 学习要点:
// 1. AutoMigrate会按外键依赖顺序建表
// 2. 外键使用ON DELETE RESTRICT,和DeleteUnreferenced的条件删除一起防止悬空引用
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AuthorModel{},
		&GenreModel{},
		&BookModel{},
		&BookGenreModel{},
		&BookInstanceModel{},
	)
}

// AuthorModel GORM作者模型
// 设计说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag
// 2. domain/author/entity.go是领域实体,不依赖GORM
// 3. 不使用软删除:软删除的行仍会满足外键,删除守卫就失效了
type AuthorModel struct {
	ID          string     `gorm:"primaryKey;size:36"`
	FirstName   string     `gorm:"size:100;not null;comment:名"`
	FamilyName  string     `gorm:"index;size:100;not null;comment:姓"`
	DateOfBirth *time.Time `gorm:"comment:出生日期"`
	DateOfDeath *time.Time `gorm:"comment:去世日期"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// GenreModel GORM类别模型
// 名称唯一索引保证并发创建同名类别时只落一条
type GenreModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"uniqueIndex;size:100;not null;comment:类别名称"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (GenreModel) TableName() string {
	return "genres"
}

// BookModel GORM图书模型
// 教学要点:
// 1. Author是belongs-to关联,只用来声明外键,读写时不加载
// 2. 类别关联放在book_genres表,由BookGenreModel显式管理
type BookModel struct {
	ID        string      `gorm:"primaryKey;size:36"`
	Title     string      `gorm:"index;size:200;not null;comment:书名"`
	AuthorID  string      `gorm:"index;size:36;not null;comment:作者ID"`
	Author    AuthorModel `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Summary   string      `gorm:"type:text;not null;comment:简介"`
	ISBN      string      `gorm:"size:20;not null;comment:ISBN号"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BookGenreModel 图书-类别关联
// 删除图书时关联行级联删除;类别被引用时禁止删除
type BookGenreModel struct {
	BookID  string     `gorm:"primaryKey;size:36"`
	GenreID string     `gorm:"primaryKey;index;size:36"`
	Book    BookModel  `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Genre   GenreModel `gorm:"foreignKey:GenreID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName 指定表名
func (BookGenreModel) TableName() string {
	return "book_genres"
}

// BookInstanceModel GORM馆藏副本模型
type BookInstanceModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	BookID    string    `gorm:"index;size:36;not null;comment:图书ID"`
	Book      BookModel `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Imprint   string    `gorm:"size:200;not null;comment:版本信息"`
	Status    string    `gorm:"index;size:20;not null;default:Maintenance;comment:状态"`
	DueBack   time.Time `gorm:"comment:应还日期"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (BookInstanceModel) TableName() string {
	return "book_instances"
}
