package catalog

import (
	"context"
	"errors"
	"testing"
)

// 内存仓储Fake,只实现测试用到的路径
type fakeBookRepo struct {
	books      map[uint]*Book
	nextID     uint
	genreCount map[uint]int64
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uint]*Book), nextID: 1, genreCount: make(map[uint]int64)}
}

func (r *fakeBookRepo) Create(ctx context.Context, book *Book) error {
	for _, b := range r.books {
		if b.ISBN == book.ISBN {
			return ErrISBNDuplicate
		}
	}
	book.ID = r.nextID
	r.nextID++
	r.books[book.ID] = book
	r.genreCount[book.GenreID]++
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id uint) (*Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	return b, nil
}

func (r *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*Book, error) {
	for _, b := range r.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return nil, ErrBookNotFound
}

func (r *fakeBookRepo) Update(ctx context.Context, book *Book) error {
	if _, ok := r.books[book.ID]; !ok {
		return ErrBookNotFound
	}
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uint) error {
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	var out []*Book
	for _, b := range r.books {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookRepo) CountByGenre(ctx context.Context, genreID uint) (int64, error) {
	return r.genreCount[genreID], nil
}

type fakeGenreRepo struct {
	genres map[uint]*Genre
	nextID uint
}

func newFakeGenreRepo(names ...string) *fakeGenreRepo {
	r := &fakeGenreRepo{genres: make(map[uint]*Genre), nextID: 1}
	for _, name := range names {
		g := NewGenre(name)
		g.ID = r.nextID
		r.genres[g.ID] = g
		r.nextID++
	}
	return r
}

func (r *fakeGenreRepo) Create(ctx context.Context, genre *Genre) error {
	for _, g := range r.genres {
		if g.Name == genre.Name {
			return ErrGenreDuplicate
		}
	}
	genre.ID = r.nextID
	r.nextID++
	r.genres[genre.ID] = genre
	return nil
}

func (r *fakeGenreRepo) FindByID(ctx context.Context, id uint) (*Genre, error) {
	g, ok := r.genres[id]
	if !ok {
		return nil, ErrGenreNotFound
	}
	return g, nil
}

func (r *fakeGenreRepo) List(ctx context.Context) ([]*Genre, error) {
	var out []*Genre
	for _, g := range r.genres {
		out = append(out, g)
	}
	return out, nil
}

func (r *fakeGenreRepo) Update(ctx context.Context, genre *Genre) error {
	r.genres[genre.ID] = genre
	return nil
}

func (r *fakeGenreRepo) Delete(ctx context.Context, id uint) error {
	delete(r.genres, id)
	return nil
}

func newTestService() (Service, *fakeBookRepo, *fakeGenreRepo) {
	bookRepo := newFakeBookRepo()
	genreRepo := newFakeGenreRepo("小说", "技术")
	return NewService(bookRepo, genreRepo), bookRepo, genreRepo
}

// TestISBNValidation 测试ISBN格式校验
func TestISBNValidation(t *testing.T) {
	valid := []string{
		"9787111558422",     // 13位
		"978-7-111-55842-2", // 带连字符,归一化后13位
		"7111558421",        // 10位
		"711155842X",        // 10位,校验位X
		"711155842x",        // 小写x也接受
	}
	for _, isbn := range valid {
		if !isValidISBN(normalizeISBN(isbn)) {
			t.Errorf("%s应为合法ISBN", isbn)
		}
	}

	invalid := []string{
		"",
		"123",
		"97871115584221", // 14位
		"978711155842a",  // 含非法字符
		"X111558421",     // X不在末位
	}
	for _, isbn := range invalid {
		if isValidISBN(normalizeISBN(isbn)) {
			t.Errorf("%s不应为合法ISBN", isbn)
		}
	}
}

// TestPublishBook 测试上架业务规则
func TestPublishBook(t *testing.T) {
	ctx := context.Background()

	t.Run("正常上架", func(t *testing.T) {
		svc, _, _ := newTestService()

		b, err := svc.PublishBook(ctx, "978-7-111-55842-2", "Go程序设计", "作者", 8900, 1, "", "")
		if err != nil {
			t.Fatalf("上架失败: %v", err)
		}
		if b.ISBN != "9787111558422" {
			t.Errorf("ISBN应归一化存储: %s", b.ISBN)
		}
		if b.ID == 0 {
			t.Error("上架后应有ID")
		}
	})

	t.Run("无效ISBN", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.PublishBook(ctx, "bad-isbn", "书名", "作者", 8900, 1, "", "")
		if !errors.Is(err, ErrInvalidISBN) {
			t.Errorf("应返回ErrInvalidISBN，实际: %v", err)
		}
	})

	t.Run("价格必须大于0", func(t *testing.T) {
		svc, _, _ := newTestService()

		for _, price := range []int64{0, -100} {
			_, err := svc.PublishBook(ctx, "9787111558422", "书名", "作者", price, 1, "", "")
			if !errors.Is(err, ErrInvalidPrice) {
				t.Errorf("价格%d应返回ErrInvalidPrice，实际: %v", price, err)
			}
		}
	})

	t.Run("类别不存在", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.PublishBook(ctx, "9787111558422", "书名", "作者", 8900, 999, "", "")
		if !errors.Is(err, ErrGenreNotFound) {
			t.Errorf("应返回ErrGenreNotFound，实际: %v", err)
		}
	})

	t.Run("重复ISBN", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.PublishBook(ctx, "9787111558422", "第一本", "作者", 8900, 1, "", "")
		if err != nil {
			t.Fatalf("第一次上架失败: %v", err)
		}
		_, err = svc.PublishBook(ctx, "9787111558422", "第二本", "作者", 8900, 1, "", "")
		if !errors.Is(err, ErrISBNDuplicate) {
			t.Errorf("应返回ErrISBNDuplicate，实际: %v", err)
		}
	})
}

// TestUpdateBook 测试更新规则(零值不修改)
func TestUpdateBook(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	b, err := svc.PublishBook(ctx, "9787111558422", "原标题", "原作者", 8900, 1, "", "原描述")
	if err != nil {
		t.Fatalf("上架失败: %v", err)
	}

	t.Run("只改价格其他不动", func(t *testing.T) {
		updated, err := svc.UpdateBook(ctx, b.ID, "", "", "", 0, 12900, "")
		if err != nil {
			t.Fatalf("更新失败: %v", err)
		}
		if updated.Price != 12900 {
			t.Errorf("价格应更新为12900，实际%d", updated.Price)
		}
		if updated.Title != "原标题" || updated.Author != "原作者" {
			t.Error("空字段不应覆盖原值")
		}
	})

	t.Run("改到不存在的类别", func(t *testing.T) {
		_, err := svc.UpdateBook(ctx, b.ID, "", "", "", 999, 0, "")
		if !errors.Is(err, ErrGenreNotFound) {
			t.Errorf("应返回ErrGenreNotFound，实际: %v", err)
		}
	})

	t.Run("负价格被拒绝", func(t *testing.T) {
		_, err := svc.UpdateBook(ctx, b.ID, "", "", "", 0, -1, "")
		if !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("应返回ErrInvalidPrice，实际: %v", err)
		}
	})
}

// TestGenreRules 测试类别业务规则
func TestGenreRules(t *testing.T) {
	ctx := context.Background()

	t.Run("空名称被拒绝", func(t *testing.T) {
		svc, _, _ := newTestService()

		for _, name := range []string{"", "   "} {
			_, err := svc.CreateGenre(ctx, name)
			if !errors.Is(err, ErrInvalidGenreName) {
				t.Errorf("名称%q应返回ErrInvalidGenreName，实际: %v", name, err)
			}
		}
	})

	t.Run("重名被拒绝", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.CreateGenre(ctx, "小说")
		if !errors.Is(err, ErrGenreDuplicate) {
			t.Errorf("应返回ErrGenreDuplicate，实际: %v", err)
		}
	})

	t.Run("删除被引用的类别被拒绝", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.PublishBook(ctx, "9787111558422", "书名", "作者", 8900, 1, "", "")
		if err != nil {
			t.Fatalf("上架失败: %v", err)
		}

		if err := svc.DeleteGenre(ctx, 1); !errors.Is(err, ErrGenreInUse) {
			t.Errorf("应返回ErrGenreInUse，实际: %v", err)
		}
	})

	t.Run("删除空类别", func(t *testing.T) {
		svc, _, genreRepo := newTestService()

		if err := svc.DeleteGenre(ctx, 2); err != nil {
			t.Fatalf("删除空类别失败: %v", err)
		}
		if _, err := genreRepo.FindByID(ctx, 2); !errors.Is(err, ErrGenreNotFound) {
			t.Error("类别应已被删除")
		}
	})

	t.Run("重命名", func(t *testing.T) {
		svc, _, _ := newTestService()

		g, err := svc.RenameGenre(ctx, 1, "文学")
		if err != nil {
			t.Fatalf("重命名失败: %v", err)
		}
		if g.Name != "文学" {
			t.Errorf("名称应为文学，实际%s", g.Name)
		}
	})
}
