package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var global *zerolog.Logger

// Init 初始化 zerolog 日志
// level: 日志级别 ("debug", "info", "warn", "error")
// file: 日志文件路径，为空时仅输出到控制台
func Init(level string, file string) error {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}

	var output io.Writer = os.Stdout

	if file != "" {
		// 如果指定了文件，同时输出到文件和控制台
		fileWriter, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		output = io.MultiWriter(os.Stdout, fileWriter)
	}

	l := zerolog.New(zerolog.ConsoleWriter{Out: output, TimeFormat: "2006-01-02 15:04:05"}).
		With().Timestamp().Logger().Level(logLevel)

	global = &l
	return nil
}

// Get 返回全局 logger 实例
// 如果 logger 未初始化，返回一个丢弃输出的 logger
func Get() *zerolog.Logger {
	if global == nil {
		l := zerolog.New(io.Discard)
		global = &l
	}
	return global
}
