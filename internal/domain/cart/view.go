package cart

// View 购物车读模型
// 说明:展示购物车需要跨聚合的信息(书名、作者、类别、实时库存),
// 不让Cart实体直接持有Book对象,而是由仓储联表拼出只读视图,
// 避免隐式懒加载与N+1查询
type View struct {
	CartID     uint       `json:"cart_id"`
	Items      []ItemView `json:"items"`
	TotalUnits int        `json:"total_units"`
	TotalCents int64      `json:"total_cents"`
}

// ItemView 购物车行读模型
type ItemView struct {
	BookID     uint   `json:"book_id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Genre      string `json:"genre"`
	CoverImage string `json:"cover_image,omitempty"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"` // 加购时快照(分)
	Subtotal   int64  `json:"subtotal"`   // UnitPrice*Quantity(分)
	Available  int    `json:"available"`  // 当前可售库存(展示用)
}

// EmptyView 空购物车视图
// "没有购物车"对读取方而言是合法状态,返回空视图而非错误
func EmptyView() *View {
	return &View{Items: []ItemView{}}
}
