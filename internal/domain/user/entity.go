package user

import (
	"time"
)

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. User是用户聚合的根实体，包含用户的核心属性
// 2. ExternalID是外部认证体系的身份标识（不透明字符串，唯一索引），
//    它与内部自增ID构成"身份桥接"：认证层只认ExternalID，
//    核心业务层只认内部整型ID，两个ID空间只在桥接处转换
// 3. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 4. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID         uint
	ExternalID string // 外部身份标识（桥接键，唯一）
	Email      string
	Password   string // bcrypt哈希值
	Name       string
	Address    string
	PostalCode string
	Country    string
	Phone      string
	TaxID      string // 税号
	Role       string // user | admin
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码；externalID在注册时生成，
// 之后不再变化（订单、购物车等都通过内部ID关联，不感知它）
func NewUser(externalID, email, hashedPassword, name string) *User {
	now := time.Now().UTC()
	return &User{
		ExternalID: externalID,
		Email:      email,
		Password:   hashedPassword,
		Name:       name,
		Role:       RoleUser,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateProfile 更新联系资料（领域行为）
func (u *User) UpdateProfile(name, address, postalCode, country, phone, taxID string) {
	u.Name = name
	u.Address = address
	u.PostalCode = postalCode
	u.Country = country
	u.Phone = phone
	u.TaxID = taxID
	u.UpdatedAt = time.Now().UTC()
}
