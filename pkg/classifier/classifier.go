package classifier

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/spf13/afero"

	"github.com/eteb/Smart-File-Tool/internal"
)

// 类型嗅探只需要文件头部
const sniffBufferSize = 8192

// Key 根据整理模式计算文件的分组键
// type 和 date 模式不做任何额外 I/O；mime 模式读取文件头部做类型嗅探。
func Key(fs afero.Fs, mode internal.OrganizeMode, path string, info os.FileInfo) (string, error) {
	switch mode {
	case internal.OrganizeByType:
		return ByExtension(path), nil
	case internal.OrganizeByDate:
		return ByMonth(info.ModTime()), nil
	case internal.OrganizeByMIME:
		return ByMIME(fs, path)
	default:
		return "", fmt.Errorf("%w: 未知的整理模式 %q，支持 type、date、mime", internal.ErrInvalidArgument, mode)
	}
}

// ByExtension 返回小写的扩展名（不含点号）
// 没有扩展名的文件（包括 .bashrc 这类点号开头的文件）归入 no_ext。
func ByExtension(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		// .bashrc 这类点号开头且没有第二个点的文件没有扩展名
		return internal.NoExtDir
	}
	trimmed := strings.ToLower(strings.TrimPrefix(ext, "."))
	if trimmed == "" {
		return internal.NoExtDir
	}
	return trimmed
}

// ByMonth 返回修改时间对应的 YYYY-MM
func ByMonth(modTime time.Time) string {
	return modTime.Format("2006-01")
}

// ByMIME 嗅探文件头部，返回类型大类目录名
func ByMIME(fs afero.Fs, path string) (string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	buf := make([]byte, sniffBufferSize)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("读取文件头部失败: %w", err)
	}

	kind, err := filetype.Match(buf[:n])
	if err != nil {
		return "", fmt.Errorf("类型嗅探失败: %w", err)
	}

	return category(kind), nil
}

// category 把嗅探结果映射为目录名
func category(kind types.Type) string {
	if kind == types.Unknown {
		return "other"
	}

	mime := kind.MIME.Value
	if len(mime) >= 5 {
		switch mime[:5] {
		case "image":
			return "image"
		case "video":
			return "video"
		case "audio":
			return "audio"
		}
	}

	switch kind.Extension {
	case "pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "rtf", "odt", "ods", "odp", "epub":
		return "document"
	case "zip", "tar", "rar", "gz", "bz2", "7z", "xz", "zstd":
		return "archive"
	case "exe", "elf", "macho", "wasm":
		return "executable"
	}

	return "other"
}
