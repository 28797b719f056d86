package fileops

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/eteb/Smart-File-Tool/internal"
	"github.com/eteb/Smart-File-Tool/pkg/logger"
)

// Move 把文件从 src 移动到 dst
// 同卷时是原子 rename；跨卷 rename 失败后退化为复制加删除。
// 任何失败路径下源文件都保持存在，不会留下半个目标文件。
func Move(fs afero.Fs, src, dst string) error {
	if err := fs.Rename(src, dst); err == nil {
		return nil
	}

	// rename 失败（通常是跨卷移动），尝试复制后删除
	logger.Get().Debug().Msgf("直接重命名失败，尝试复制后删除: %s -> %s", src, dst)

	if err := Copy(fs, src, dst); err != nil {
		return err
	}

	if err := fs.Remove(src); err != nil {
		return fmt.Errorf("%w: 删除源文件失败: %v", internal.ErrFilesystem, err)
	}

	return nil
}

// Copy 流式复制文件内容到 dst，保留权限位和修改时间
// 复制中途失败会清理掉不完整的目标文件。
func Copy(fs afero.Fs, src, dst string) error {
	srcInfo, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: 读取源文件信息失败: %v", internal.ErrFilesystem, err)
	}

	srcFile, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("%w: 打开源文件失败: %v", internal.ErrFilesystem, err)
	}
	defer srcFile.Close()

	dstFile, err := fs.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: 创建目标文件失败: %v", internal.ErrFilesystem, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		_ = fs.Remove(dst)
		return fmt.Errorf("%w: 复制文件内容失败: %v", internal.ErrFilesystem, err)
	}

	if err := dstFile.Close(); err != nil {
		_ = fs.Remove(dst)
		return fmt.Errorf("%w: 关闭目标文件失败: %v", internal.ErrFilesystem, err)
	}

	_ = fs.Chmod(dst, srcInfo.Mode())
	_ = fs.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())

	return nil
}

// UniquePath 返回 dst 或一个不冲突的变体
// 目标已存在时在扩展名前追加自增序号：name_1.ext、name_2.ext …
func UniquePath(fs afero.Fs, dst string) (string, error) {
	return UniquePathExcluding(fs, dst, nil)
}

// UniquePathExcluding 与 UniquePath 相同，但额外把 taken 中的路径视为已占用
// 预览模式用它记住尚未落盘的移动，保证报告的目标名与真实执行一致。
func UniquePathExcluding(fs afero.Fs, dst string, taken map[string]bool) (string, error) {
	occupied := func(path string) (bool, error) {
		if taken[path] {
			return true, nil
		}
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return false, fmt.Errorf("%w: 检查目标文件失败: %v", internal.ErrFilesystem, err)
		}
		return exists, nil
	}

	busy, err := occupied(dst)
	if err != nil {
		return "", err
	}
	if !busy {
		return dst, nil
	}

	ext := filepath.Ext(dst)
	baseName := strings.TrimSuffix(dst, ext)

	for i := 1; i <= internal.MaxRenameAttempts; i++ {
		candidate := fmt.Sprintf("%s_%d%s", baseName, i, ext)
		busy, err := occupied(candidate)
		if err != nil {
			return "", err
		}
		if !busy {
			if i == 1 {
				logger.Get().Debug().Msgf("目标文件已存在，自动重命名: %s -> %s", dst, candidate)
			}
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: 无法生成唯一文件名，已尝试 %d 次: %s",
		internal.ErrFilesystem, internal.MaxRenameAttempts, dst)
}
