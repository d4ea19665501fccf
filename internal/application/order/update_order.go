package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// UpdateStatusUseCase 订单状态流转用例(管理端)
// 业务规则:流转必须沿着状态机(Pending→Shipped/Cancelled,
// Shipped→Delivered),非法流转返回ErrInvalidStatusTransition
type UpdateStatusUseCase struct {
	orderRepo order.Repository
}

// NewUpdateStatusUseCase 创建状态流转用例
func NewUpdateStatusUseCase(orderRepo order.Repository) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{orderRepo: orderRepo}
}

// Execute 执行状态流转
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, orderID uint, target int) (*OrderDetail, error) {
	targetStatus := order.Status(target)
	if !targetStatus.IsValid() {
		return nil, order.ErrInvalidStatus
	}

	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// 状态机校验在实体上(TransitionTo)
	if err := o.TransitionTo(targetStatus); err != nil {
		return nil, err
	}

	if err := uc.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	return toOrderDetail(o), nil
}

// TogglePaymentUseCase 支付标记翻转用例(管理端)
// 说明:记账用的人工开关,不对接真实支付渠道;
// 已取消的订单也允许翻转(退款后把paid翻回false的场景)
type TogglePaymentUseCase struct {
	orderRepo order.Repository
}

// NewTogglePaymentUseCase 创建支付翻转用例
func NewTogglePaymentUseCase(orderRepo order.Repository) *TogglePaymentUseCase {
	return &TogglePaymentUseCase{orderRepo: orderRepo}
}

// Execute 执行支付翻转
func (uc *TogglePaymentUseCase) Execute(ctx context.Context, orderID uint) (*OrderDetail, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	o.TogglePayment()

	if err := uc.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	return toOrderDetail(o), nil
}
