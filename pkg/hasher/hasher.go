package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/eteb/Smart-File-Tool/internal"
	"github.com/eteb/Smart-File-Tool/pkg/logger"
)

// Sum 分块流式计算文件内容的 SHA-256，返回十六进制摘要
// bufSize <= 0 时使用默认分块大小。整个文件永远不会一次性读入内存。
func Sum(fs afero.Fs, path string, bufSize int) (string, error) {
	if bufSize <= 0 {
		bufSize = internal.DefaultHashBufferSize
	}

	file, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", internal.ErrFileUnreadable, path, err)
	}
	defer file.Close()

	h := sha256.New()
	buf := make([]byte, bufSize)
	if _, err := io.CopyBuffer(h, file, buf); err != nil {
		return "", fmt.Errorf("%w: %s: %v", internal.ErrFileUnreadable, path, err)
	}

	digest := hex.EncodeToString(h.Sum(nil))
	logger.Get().Trace().Msgf("文件哈希计算完成: %s -> %s", path, digest)
	return digest, nil
}

// Quick 用 xxHash 计算文件内容的快速指纹
// 只作为校验和级联中的廉价预筛选，最终分组仍以 SHA-256 为准。
func Quick(fs afero.Fs, path string, bufSize int) (string, error) {
	if bufSize <= 0 {
		bufSize = internal.DefaultHashBufferSize
	}

	file, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", internal.ErrFileUnreadable, path, err)
	}
	defer file.Close()

	h := xxhash.New()
	buf := make([]byte, bufSize)
	if _, err := io.CopyBuffer(h, file, buf); err != nil {
		return "", fmt.Errorf("%w: %s: %v", internal.ErrFileUnreadable, path, err)
	}

	return strconv.FormatUint(h.Sum64(), 16), nil
}
