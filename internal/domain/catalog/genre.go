package catalog

import "time"

// Genre 图书类别
// 说明:单表参考数据,被Book以外键引用;
// 删除前必须确认类别下已无图书(ErrGenreInUse)
type Genre struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGenre 创建类别(工厂方法)
func NewGenre(name string) *Genre {
	now := time.Now().UTC()
	return &Genre{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename 重命名类别
func (g *Genre) Rename(name string) error {
	if name == "" {
		return ErrInvalidGenreName
	}
	g.Name = name
	g.UpdatedAt = time.Now().UTC()
	return nil
}
