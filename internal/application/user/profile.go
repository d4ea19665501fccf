package user

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/user"
)

// ProfileUseCase 用户资料用例（查询与更新联系信息）
type ProfileUseCase struct {
	userRepo user.Repository
}

// NewProfileUseCase 创建资料用例
func NewProfileUseCase(userRepo user.Repository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo}
}

// Get 查询当前用户资料
func (uc *ProfileUseCase) Get(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(u), nil
}

// Update 更新联系资料
// 业务规则：邮箱和角色不在此处修改，只更新配送相关的联系字段
func (uc *ProfileUseCase) Update(ctx context.Context, userID uint, req UpdateProfileRequest) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.UpdateProfile(req.Name, req.Address, req.PostalCode, req.Country, req.Phone, req.TaxID)

	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	return toProfileResponse(u), nil
}

func toProfileResponse(u *user.User) *ProfileResponse {
	return &ProfileResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Address:    u.Address,
		PostalCode: u.PostalCode,
		Country:    u.Country,
		Phone:      u.Phone,
		TaxID:      u.TaxID,
		Role:       u.Role,
	}
}

// =========================================
// 应用层DTO
// =========================================

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	Name       string
	Address    string
	PostalCode string
	Country    string
	Phone      string
	TaxID      string
}

// ProfileResponse 用户资料响应
type ProfileResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	TaxID      string `json:"tax_id"`
	Role       string `json:"role"`
}
