package catalog

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 目录领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.ErrISBNDuplicate

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")

	// ErrInvalidISBN ISBN格式不正确
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN格式不正确")

	// ErrGenreNotFound 类别不存在
	ErrGenreNotFound = apperrors.ErrGenreNotFound

	// ErrGenreDuplicate 类别名已存在
	ErrGenreDuplicate = apperrors.ErrGenreDuplicate

	// ErrGenreInUse 类别下仍有图书
	ErrGenreInUse = apperrors.ErrGenreInUse

	// ErrInvalidGenreName 类别名不合法
	ErrInvalidGenreName = apperrors.New(apperrors.ErrCodeInvalidParams, "类别名称不能为空")
)
