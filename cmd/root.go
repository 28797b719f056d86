package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eteb/Smart-File-Tool/app"
	"github.com/eteb/Smart-File-Tool/config"
	"github.com/eteb/Smart-File-Tool/internal"
	"github.com/eteb/Smart-File-Tool/pkg/logger"
)

var (
	organizeDir string
	organizeBy  string
	dedupeDir   string
	method      string
	action      string
	skipHidden  bool
	dryRun      bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "smart-file-tool",
	Short: "整理目录并清理重复文件的工具",
	Long: `Smart File Tool 对一个目录树做单次同步扫描:

- 按扩展名、修改月份或嗅探出的文件类型把文件归入子目录
- 按内容校验和或（文件名, 大小）检测重复文件，删除/移动/复制重复项

--organize 和 --dedupe 可以同时给出，先整理后去重。
--dry-run 只报告将要执行的动作，不修改任何文件。`,
	SilenceUsage: true,
	RunE:         run,
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := cfg.Logging.Level
	if verbose {
		logLevel = "debug"
	}
	if err := logger.Init(logLevel, cfg.Logging.File); err != nil {
		return err
	}

	if organizeDir == "" && dedupeDir == "" {
		return cmd.Usage()
	}

	if organizeDir != "" {
		if organizeBy == "" {
			// 缺少 --by 只提示，不算错误，后面的去重照常执行
			logger.Get().Warn().Msg("使用 --organize 时请通过 --by 指定 type、date 或 mime")
		} else {
			stats, err := app.RunOrganize(&app.OrganizeOptions{
				Dir:        organizeDir,
				By:         organizeBy,
				SkipHidden: skipHidden,
				DryRun:     dryRun,
			})
			if err != nil {
				return err
			}
			printOrganizeStats(stats)
		}
	}

	if dedupeDir != "" {
		stats, err := app.RunDedupe(&app.DedupeOptions{
			Dir:        dedupeDir,
			Method:     method,
			Action:     action,
			SkipHidden: skipHidden,
			DryRun:     dryRun,
			Workers:    cfg.Performance.Workers,
			BufferSize: cfg.Hasher.BufferSize,
			Progress:   !dryRun,
		})
		if err != nil {
			return err
		}
		printDedupeStats(stats)
	}

	return nil
}

// Execute 由 main.main() 调用一次
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&organizeDir, "organize", "", "要整理的目录")
	rootCmd.Flags().StringVar(&organizeBy, "by", "", "整理依据: type、date 或 mime")
	rootCmd.Flags().StringVar(&dedupeDir, "dedupe", "", "要去重的目录")
	rootCmd.Flags().StringVar(&method, "method", "checksum", "重复检测方法: checksum 或 name-size")
	rootCmd.Flags().StringVar(&action, "action", "delete", "重复文件处理动作: delete、move 或 copy")
	rootCmd.Flags().BoolVar(&skipHidden, "skip-hidden", false, "跳过隐藏/系统文件")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "预览模式，不实际修改文件")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "显示详细日志")
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func printOrganizeStats(stats *internal.ProcessStats) {
	elapsed := stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info().Msg("========== 整理完成 ==========")
	logger.Get().Info().Msgf("总文件数: %d", stats.TotalScanned)
	logger.Get().Info().Msgf("已移动: %d 个", stats.Moved)
	logger.Get().Info().Msgf("已就位: %d 个", stats.InPlace)
	logger.Get().Info().Msgf("失败: %d 个", stats.Errors)
	logger.Get().Info().Msgf("总耗时: %v", elapsed)
	logger.Get().Info().Msg("============================")
}

func printDedupeStats(stats *internal.ProcessStats) {
	elapsed := stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info().Msg("========== 去重完成 ==========")
	logger.Get().Info().Msgf("总文件数: %d", stats.TotalScanned)
	logger.Get().Info().Msgf("重复文件: %d 个", stats.Deleted+stats.Moved+stats.Copied)
	logger.Get().Info().Msgf("  - 已删除: %d 个", stats.Deleted)
	logger.Get().Info().Msgf("  - 已移动: %d 个", stats.Moved)
	logger.Get().Info().Msgf("  - 已复制: %d 个", stats.Copied)
	logger.Get().Info().Msgf("跳过（不可读）: %d 个", stats.Skipped)
	logger.Get().Info().Msgf("失败: %d 个", stats.Errors)
	logger.Get().Info().Msgf("释放空间: %s", formatBytes(stats.FreedSpace))
	logger.Get().Info().Msgf("总耗时: %v", elapsed)
	logger.Get().Info().Msg("============================")
}
