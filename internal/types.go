package internal

import "time"

// 重复检测方法
type Method string

const (
	MethodChecksum Method = "checksum"
	MethodNameSize Method = "name-size"
)

func (m Method) Valid() bool {
	return m == MethodChecksum || m == MethodNameSize
}

// 重复文件处理动作
type Action string

const (
	ActionDelete Action = "delete"
	ActionMove   Action = "move"
	ActionCopy   Action = "copy"
)

func (a Action) Valid() bool {
	return a == ActionDelete || a == ActionMove || a == ActionCopy
}

// 整理模式
type OrganizeMode string

const (
	OrganizeByType OrganizeMode = "type"
	OrganizeByDate OrganizeMode = "date"
	OrganizeByMIME OrganizeMode = "mime"
)

func (m OrganizeMode) Valid() bool {
	return m == OrganizeByType || m == OrganizeByDate || m == OrganizeByMIME
}

// 处理统计
type ProcessStats struct {
	TotalScanned int
	Moved        int
	Deleted      int
	Copied       int
	InPlace      int
	Skipped      int
	Errors       int
	FreedSpace   int64
	StartTime    time.Time
	EndTime      time.Time
}
