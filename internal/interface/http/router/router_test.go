package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcatalog "github.com/xiebiao/locallibrary/internal/application/catalog"
	"github.com/xiebiao/locallibrary/internal/infrastructure/config"
	"github.com/xiebiao/locallibrary/internal/infrastructure/events"
	"github.com/xiebiao/locallibrary/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/locallibrary/internal/interface/http/handler"
	"github.com/xiebiao/locallibrary/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Fields  map[string]string `json:"fields"`
}

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) *gin.Engine {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Mode = gin.TestMode
	cfg.Database.Path = filepath.Join(t.TempDir(), "library.db")

	db, err := mysql.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	svc := appcatalog.NewService(appcatalog.Repositories{
		Authors:   mysql.NewAuthorRepository(db),
		Genres:    mysql.NewGenreRepository(db),
		Books:     mysql.NewBookRepository(db),
		Instances: mysql.NewBookInstanceRepository(db),
	}, mysql.NewTxManager(db), cfg.Catalog, nil, events.Noop{}, zap.NewNop())

	return New(cfg, handler.NewCatalogHandler(svc), limiter, zap.NewNop())
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type redirect struct {
	ID       string `json:"id"`
	Redirect string `json:"redirect"`
}

func createAuthor(t *testing.T, r *gin.Engine, first, family string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/catalog/author/create", gin.H{
		"first_name":    first,
		"family_name":   family,
		"date_of_birth": "1973-06-06",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[redirect](t, env).ID
}

func createGenre(t *testing.T, r *gin.Engine, name string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/catalog/genre/create", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[redirect](t, env).ID
}

func createBook(t *testing.T, r *gin.Engine, authorID string, genre any) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/catalog/book/create", gin.H{
		"title":   "The Name of the Wind",
		"author":  authorID,
		"summary": "A story.",
		"isbn":    "9781473211896",
		"genre":   genre,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[redirect](t, env).ID
}

func TestPing(t *testing.T) {
	r := newTestRouter(t, nil)
	w, env := do(t, r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)
	do(t, r, http.MethodGet, "/ping", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestAuthorLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)

	w, env := do(t, r, http.MethodPost, "/catalog/author/create", gin.H{
		"first_name":    "Patrick",
		"family_name":   "Rothfuss",
		"date_of_birth": "1973-06-06",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[redirect](t, env)
	assert.Equal(t, "/catalog/author/"+created.ID, created.Redirect)
	assert.Equal(t, created.Redirect, w.Header().Get("Location"))

	w, env = do(t, r, http.MethodGet, created.Redirect, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		Author struct {
			Name                 string `json:"name"`
			DateOfBirth          string `json:"date_of_birth"`
			DateOfBirthFormatted string `json:"date_of_birth_formatted"`
			Lifespan             string `json:"lifespan"`
			URL                  string `json:"url"`
		} `json:"author"`
		Books []json.RawMessage `json:"books"`
	}](t, env)
	assert.Equal(t, "Rothfuss,Patrick", detail.Author.Name)
	assert.Equal(t, "1973-06-06", detail.Author.DateOfBirth)
	assert.Equal(t, "June 6th, 1973", detail.Author.DateOfBirthFormatted)
	assert.Equal(t, "Jun 6, 1973 - ", detail.Author.Lifespan)
	assert.Equal(t, created.Redirect, detail.Author.URL)
	assert.Empty(t, detail.Books)

	// 全量更新:未提供的出生日期被清空
	w, _ = do(t, r, http.MethodPost, created.Redirect+"/update", gin.H{
		"first_name":  "Pat",
		"family_name": "Rothfuss",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = do(t, r, http.MethodGet, created.Redirect+"/update", nil)
	require.Equal(t, http.StatusOK, w.Code)
	form := decode[map[string]any](t, env)
	assert.Equal(t, "Pat", form["first_name"])
	assert.NotContains(t, form, "date_of_birth")

	w, env = do(t, r, http.MethodPost, created.Redirect+"/delete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/catalog/authors", decode[redirect](t, env).Redirect)

	w, env = do(t, r, http.MethodGet, created.Redirect, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ErrCodeAuthorNotFound, env.Code)
}

func TestCreateAuthor_Invalid(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		name  string
		body  gin.H
		field string
	}{
		{"名字为空", gin.H{"first_name": "", "family_name": "Rothfuss"}, "first_name"},
		{"名字含空格", gin.H{"first_name": "Pat rick", "family_name": "Rothfuss"}, "first_name"},
		{"姓氏超长", gin.H{"first_name": "Patrick", "family_name": string(bytes.Repeat([]byte("a"), 101))}, "family_name"},
		{"日期格式错误", gin.H{"first_name": "Patrick", "family_name": "Rothfuss", "date_of_birth": "06/06/1973"}, "date_of_birth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/catalog/author/create", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, apperrors.ErrCodeBindError, env.Code)
			assert.Contains(t, env.Fields, tt.field)
		})
	}
}

func TestCreateAuthor_DeathBeforeBirth(t *testing.T) {
	r := newTestRouter(t, nil)

	w, env := do(t, r, http.MethodPost, "/catalog/author/create", gin.H{
		"first_name":    "Patrick",
		"family_name":   "Rothfuss",
		"date_of_birth": "1973-06-06",
		"date_of_death": "1970-01-01",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Fields, "date_of_death")
}

func TestListAuthors_BadSort(t *testing.T) {
	r := newTestRouter(t, nil)

	w, env := do(t, r, http.MethodGet, "/catalog/authors?sort=password", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Fields, "sort")

	w, _ = do(t, r, http.MethodGet, "/catalog/authors?order=sideways", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateGenre_Idempotent(t *testing.T) {
	r := newTestRouter(t, nil)

	id := createGenre(t, r, "Fantasy")

	w, env := do(t, r, http.MethodPost, "/catalog/genre/create", gin.H{"name": "  Fantasy "})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		ID      string `json:"id"`
		Existed bool   `json:"existed"`
	}](t, env)
	assert.Equal(t, id, got.ID)
	assert.True(t, got.Existed)

	w, env = do(t, r, http.MethodGet, "/catalog/genres", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]json.RawMessage](t, env), 1)
}

func TestBook_GenreAcceptsStringOrArray(t *testing.T) {
	r := newTestRouter(t, nil)

	authorID := createAuthor(t, r, "Patrick", "Rothfuss")
	fantasy := createGenre(t, r, "Fantasy")
	epic := createGenre(t, r, "Epic")

	single := createBook(t, r, authorID, fantasy)
	multi := createBook(t, r, authorID, []string{fantasy, epic})

	type genreOption struct {
		ID      string `json:"id"`
		Checked bool   `json:"checked"`
	}
	type form struct {
		Book struct {
			GenreIDs []string `json:"genre_ids"`
		} `json:"book"`
		Authors []json.RawMessage `json:"authors"`
		Genres  []genreOption     `json:"genres"`
	}

	w, env := do(t, r, http.MethodGet, "/catalog/book/"+single+"/update", nil)
	require.Equal(t, http.StatusOK, w.Code)
	f := decode[form](t, env)
	assert.Equal(t, []string{fantasy}, f.Book.GenreIDs)
	assert.Len(t, f.Authors, 1)
	checked := map[string]bool{}
	for _, g := range f.Genres {
		checked[g.ID] = g.Checked
	}
	assert.Equal(t, map[string]bool{fantasy: true, epic: false}, checked)

	w, env = do(t, r, http.MethodGet, "/catalog/book/"+multi, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		Book struct {
			Title  string `json:"title"`
			Author struct {
				Name string `json:"name"`
			} `json:"author"`
			Genres []struct {
				Name string `json:"name"`
			} `json:"genres"`
		} `json:"book"`
		Instances []json.RawMessage `json:"instances"`
	}](t, env)
	assert.Equal(t, "Rothfuss,Patrick", detail.Book.Author.Name)
	require.Len(t, detail.Book.Genres, 2)
	assert.Equal(t, "Epic", detail.Book.Genres[0].Name)
	assert.Equal(t, "Fantasy", detail.Book.Genres[1].Name)
	assert.Empty(t, detail.Instances)
}

func TestCreateBook_InvalidReference(t *testing.T) {
	r := newTestRouter(t, nil)

	w, env := do(t, r, http.MethodPost, "/catalog/book/create", gin.H{
		"title":   "Orphan",
		"author":  "missing-author",
		"summary": "s",
		"isbn":    "i",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Fields, "author")

	authorID := createAuthor(t, r, "Patrick", "Rothfuss")
	w, env = do(t, r, http.MethodPost, "/catalog/book/create", gin.H{
		"title":   "Dup",
		"author":  authorID,
		"summary": "s",
		"isbn":    "i",
		"genre":   []string{"g1", "g1"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Fields, "genre")
}

func TestDeleteAuthor_Blocked(t *testing.T) {
	r := newTestRouter(t, nil)

	authorID := createAuthor(t, r, "Patrick", "Rothfuss")
	bookID := createBook(t, r, authorID, nil)

	w, env := do(t, r, http.MethodGet, "/catalog/author/"+authorID+"/deletable", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decision := decode[struct {
		Allowed  bool `json:"allowed"`
		Blocking []struct {
			Kind string `json:"kind"`
			ID   string `json:"id"`
			URL  string `json:"url"`
		} `json:"blocking"`
	}](t, env)
	assert.False(t, decision.Allowed)
	require.Len(t, decision.Blocking, 1)
	assert.Equal(t, "book", decision.Blocking[0].Kind)
	assert.Equal(t, "/catalog/book/"+bookID, decision.Blocking[0].URL)

	w, env = do(t, r, http.MethodPost, "/catalog/author/"+authorID+"/delete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.ErrCodeReferenced, env.Code)
	blocked := decode[struct {
		Blocking []struct {
			ID string `json:"id"`
		} `json:"blocking"`
	}](t, env)
	require.Len(t, blocked.Blocking, 1)
	assert.Equal(t, bookID, blocked.Blocking[0].ID)

	// 作者仍然存在
	w, _ = do(t, r, http.MethodGet, "/catalog/author/"+authorID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 删掉图书后可以删除
	w, _ = do(t, r, http.MethodPost, "/catalog/book/"+bookID+"/delete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodPost, "/catalog/author/"+authorID+"/delete", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookInstance_Defaults(t *testing.T) {
	r := newTestRouter(t, nil)

	authorID := createAuthor(t, r, "Patrick", "Rothfuss")
	bookID := createBook(t, r, authorID, nil)

	w, env := do(t, r, http.MethodGet, "/catalog/bookinstance/create", nil)
	require.Equal(t, http.StatusOK, w.Code)
	form := decode[struct {
		Books    []json.RawMessage `json:"books"`
		Statuses []string          `json:"statuses"`
	}](t, env)
	assert.Len(t, form.Books, 1)
	assert.Equal(t, []string{"Available", "Maintenance", "Loaned", "Reserved"}, form.Statuses)

	w, env = do(t, r, http.MethodPost, "/catalog/bookinstance/create", gin.H{
		"book":    bookID,
		"imprint": "Gollancz, 2011.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[redirect](t, env).ID

	w, env = do(t, r, http.MethodGet, "/catalog/bookinstance/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	inst := decode[struct {
		Status           string `json:"status"`
		DueBack          string `json:"due_back"`
		DueBackFormatted string `json:"due_back_formatted"`
		Book             struct {
			ID string `json:"id"`
		} `json:"book"`
	}](t, env)
	assert.Equal(t, "Maintenance", inst.Status)
	assert.NotEmpty(t, inst.DueBack)
	assert.NotEmpty(t, inst.DueBackFormatted)
	assert.Equal(t, bookID, inst.Book.ID)

	w, _ = do(t, r, http.MethodPost, "/catalog/bookinstance/create", gin.H{
		"book":    bookID,
		"imprint": "x",
		"status":  "Lost",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// 图书有副本时不能删除
	w, _ = do(t, r, http.MethodPost, "/catalog/book/"+bookID+"/delete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSummary(t *testing.T) {
	r := newTestRouter(t, nil)

	authorID := createAuthor(t, r, "Patrick", "Rothfuss")
	createGenre(t, r, "Fantasy")
	bookID := createBook(t, r, authorID, nil)
	for _, status := range []string{"Available", "Loaned"} {
		w, _ := do(t, r, http.MethodPost, "/catalog/bookinstance/create", gin.H{
			"book": bookID, "imprint": "x", "status": status,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := do(t, r, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sum := decode[map[string]any](t, env)
	assert.Equal(t, float64(1), sum["book_count"])
	assert.Equal(t, float64(2), sum["book_instance_count"])
	assert.Equal(t, float64(1), sum["book_instance_available_count"])
	assert.Equal(t, float64(1), sum["author_count"])
	assert.Equal(t, float64(1), sum["genre_count"])
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(t, newTestLimiter())

	w, _ := do(t, r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, apperrors.ErrCodeRateLimited, env.Code)
}

// newTestLimiter 几乎不补充令牌、桶容量为1的限流器
func newTestLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(0.001, 1)
}
