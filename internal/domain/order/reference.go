package order

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateReference 生成订单参考号(对外展示用,内部仍用自增ID)
// 设计要求:
// 1. 时间有序(便于排查与归档)
// 2. 不可预测(防止恶意遍历)
//
// 格式:ORD + 时间戳(秒) + 6位随机数,如 ORD1699248000123456
func GenerateReference() string {
	timestamp := time.Now().Unix()
	random := rand.Intn(1000000)
	return fmt.Sprintf("ORD%d%06d", timestamp, random)
}
