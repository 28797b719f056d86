package deduplicator

import (
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"

	"github.com/eteb/Smart-File-Tool/internal"
	"github.com/eteb/Smart-File-Tool/pkg/hasher"
	"github.com/eteb/Smart-File-Tool/pkg/logger"
	"github.com/eteb/Smart-File-Tool/pkg/scanner"
)

// Group 一组内容（或名称加大小）等价的文件
// 成员按枚举顺序排列，首个成员是保留者，其余是待处理的重复文件。
// 不变量：长度至少为 2，单元素分组在构建阶段就被丢弃。
type Group struct {
	Key   string
	Files []scanner.FileEntry
}

func (g Group) Survivor() scanner.FileEntry {
	return g.Files[0]
}

func (g Group) Duplicates() []scanner.FileEntry {
	return g.Files[1:]
}

type Deduplicator struct {
	fs           afero.Fs
	workers      int
	bufSize      int
	showProgress bool
}

func New(fs afero.Fs, workers, bufSize int, showProgress bool) *Deduplicator {
	if workers <= 0 {
		workers = internal.DefaultWorkers
	}
	return &Deduplicator{
		fs:           fs,
		workers:      workers,
		bufSize:      bufSize,
		showProgress: showProgress,
	}
}

// FindDuplicates 把文件集合划分为重复分组
// 分组键的出现顺序和组内成员顺序都跟随输入的枚举顺序，结果是确定性的。
// 返回值中 skipped 是因哈希失败被排除的文件数；这些文件不会出现在任何分组里，
// 扫描不会因此中断。未知的 method 在任何文件 I/O 之前报错。
func (d *Deduplicator) FindDuplicates(files []scanner.FileEntry, method internal.Method) (groups []Group, skipped int, err error) {
	if !method.Valid() {
		return nil, 0, fmt.Errorf("%w: 未知的检测方法 %q，支持 checksum、name-size", internal.ErrInvalidArgument, method)
	}

	switch method {
	case internal.MethodNameSize:
		groups = d.groupByNameSize(files)
	case internal.MethodChecksum:
		groups, skipped = d.groupByChecksum(files)
	}

	logger.Get().Info().Msgf("重复检测完成: %d 个分组，跳过 %d 个文件", len(groups), skipped)
	return groups, skipped, nil
}

// groupByNameSize 按（文件名，字节大小）分组，不读取文件内容
func (d *Deduplicator) groupByNameSize(files []scanner.FileEntry) []Group {
	keys := make([]string, len(files))
	for i, f := range files {
		keys[i] = fmt.Sprintf("%s|%d", filepath.Base(f.Path), f.Info.Size())
	}
	return buildGroups(files, keys)
}

// groupByChecksum 按内容校验和分组
// 三级级联：先按大小分桶，再对候选算 xxHash 快速指纹，
// 最后只对指纹仍然相同的文件算 SHA-256，作为分组键。
// 两个文件同组当且仅当 SHA-256 摘要一致。
func (d *Deduplicator) groupByChecksum(files []scanner.FileEntry) ([]Group, int) {
	skipped := 0

	// 大小唯一的文件不可能有重复，直接排除
	sizeCount := make(map[int64]int)
	for _, f := range files {
		sizeCount[f.Info.Size()]++
	}

	var candidates []scanner.FileEntry
	for _, f := range files {
		if sizeCount[f.Info.Size()] > 1 {
			candidates = append(candidates, f)
		}
	}

	if len(candidates) == 0 {
		return nil, 0
	}

	pool, err := hasher.NewPool(d.workers)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("哈希计算池创建失败，改为单线程计算")
	} else {
		defer pool.Close()
	}

	// 快速指纹预筛选
	quickResults := d.digestAll(pool, candidates, nil, func(path string) (string, error) {
		return hasher.Quick(d.fs, path, d.bufSize)
	})

	quickKeys := make([]string, len(candidates))
	quickCount := make(map[string]int)
	for i, r := range quickResults {
		if r.Err != nil {
			logger.Get().Warn().Err(r.Err).Msgf("文件不可读，跳过: %s", r.Path)
			skipped++
			continue
		}
		// 指纹键带上大小，避免不同大小的文件撞同一个 xxHash 值
		quickKeys[i] = fmt.Sprintf("%d|%s", candidates[i].Info.Size(), r.Digest)
		quickCount[quickKeys[i]]++
	}

	var finalists []scanner.FileEntry
	for i, key := range quickKeys {
		if key != "" && quickCount[key] > 1 {
			finalists = append(finalists, candidates[i])
		}
	}

	if len(finalists) == 0 {
		return nil, skipped
	}

	// 只有走到最后一级的文件才值得一条进度
	var bar *progressbar.ProgressBar
	if d.showProgress {
		bar = progressbar.Default(int64(len(finalists)), "计算文件哈希")
	}

	sumResults := d.digestAll(pool, finalists, bar, func(path string) (string, error) {
		return hasher.Sum(d.fs, path, d.bufSize)
	})

	kept := finalists[:0]
	var sumKeys []string
	for i, r := range sumResults {
		if r.Err != nil {
			logger.Get().Warn().Err(r.Err).Msgf("文件不可读，跳过: %s", r.Path)
			skipped++
			continue
		}
		kept = append(kept, finalists[i])
		sumKeys = append(sumKeys, r.Digest)
	}

	return buildGroups(kept, sumKeys), skipped
}

// digestAll 对 entries 逐个执行 fn，池可用时并行执行
// 返回结果保持输入顺序。
func (d *Deduplicator) digestAll(pool *hasher.Pool, entries []scanner.FileEntry, bar *progressbar.ProgressBar, fn hasher.DigestFunc) []hasher.Result {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	wrapped := fn
	if bar != nil {
		wrapped = func(path string) (string, error) {
			defer bar.Add(1)
			return fn(path)
		}
	}

	if pool == nil {
		results := make([]hasher.Result, len(paths))
		for i, path := range paths {
			digest, err := wrapped(path)
			results[i] = hasher.Result{Path: path, Digest: digest, Err: err}
		}
		return results
	}

	return pool.Map(paths, wrapped)
}

// buildGroups 按键聚合，只保留多于一个成员的分组
// keys 与 entries 一一对应；键序按首次出现顺序。
func buildGroups(entries []scanner.FileEntry, keys []string) []Group {
	byKey := make(map[string]int)
	var ordered []Group

	for i, e := range entries {
		key := keys[i]
		idx, seen := byKey[key]
		if !seen {
			byKey[key] = len(ordered)
			ordered = append(ordered, Group{Key: key})
			idx = len(ordered) - 1
		}
		ordered[idx].Files = append(ordered[idx].Files, e)
	}

	var groups []Group
	for _, g := range ordered {
		if len(g.Files) > 1 {
			groups = append(groups, g)
		}
	}
	return groups
}
