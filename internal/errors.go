package internal

import "errors"

// 错误类别，调用方通过 errors.Is 判断
var (
	// ErrInvalidArgument 表示未知的方法、动作或整理模式，
	// 在任何文件系统操作开始前返回
	ErrInvalidArgument = errors.New("无效的参数")

	// ErrFileUnreadable 表示扫描过程中文件不可读（被删除、无权限等），
	// 该文件会被跳过，扫描继续
	ErrFileUnreadable = errors.New("文件不可读")

	// ErrFilesystem 表示移动/复制/删除底层操作失败
	ErrFilesystem = errors.New("文件系统操作失败")
)
