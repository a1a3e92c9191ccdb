package service

import (
	"crypto/rand"
	"math/big"
	"time"
)

const orderNoRandomChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNo 生成订单编号：PO + 时间（秒级）+ 6 位随机大写字母
func GenerateOrderNo(now time.Time) string {
	suffix := make([]byte, 6)
	max := big.NewInt(int64(len(orderNoRandomChars)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			suffix[i] = 'A'
			continue
		}
		suffix[i] = orderNoRandomChars[n.Int64()]
	}
	return "PO" + now.Format("20060102150405") + string(suffix)
}
