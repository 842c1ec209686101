package entity

import (
	"crypto/sha256"
	"encoding/hex"
)

// contextDepth 参与标识计算的前序标识个数
const contextDepth = 2

var identitySep = []byte{0x1f}

// Identity 单元格的去重标识:类型、文本、作者、当前评分以及本轮中最近1~2个标识(最近的在前)的SHA-256.
// 前序标识用来区分内容相同但位置不同的单元格
func Identity(c Cell, rating string, prev []string) string {
	h := sha256.New()
	for _, part := range []string{string(c.Type), c.Text, c.Author, rating} {
		h.Write([]byte(part))
		h.Write(identitySep)
	}
	for i := len(prev) - 1; i >= 0 && i >= len(prev)-contextDepth; i-- {
		h.Write([]byte(prev[i]))
		h.Write(identitySep)
	}
	return hex.EncodeToString(h.Sum(nil))
}
