package hasher

import (
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/eteb/Smart-File-Tool/pkg/logger"
)

// DigestFunc 单个文件的摘要计算函数
type DigestFunc func(path string) (string, error)

// Result 单个文件的摘要计算结果
// 哈希失败不是致命错误，调用方根据 Err 决定跳过该文件
type Result struct {
	Path   string
	Digest string
	Err    error
}

// Pool 基于 ants 的哈希计算池
// 每个文件的摘要相互独立，可以并行计算；Map 的返回值保持输入顺序，
// 保证后续分组是确定性的。
type Pool struct {
	workers int
	pool    *ants.Pool
}

func NewPool(workers int) (*Pool, error) {
	if workers <= 0 {
		workers = 1
	}

	p, err := ants.NewPool(workers)
	if err != nil {
		logger.Get().Error().Err(err).Msg("创建 goroutine 池失败")
		return nil, err
	}

	logger.Get().Debug().Msgf("创建哈希计算池，工作线程数: %d", workers)
	return &Pool{workers: workers, pool: p}, nil
}

// Map 对每个路径并行执行 fn，按输入顺序返回结果
func (p *Pool) Map(paths []string, fn DigestFunc) []Result {
	results := make([]Result, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			digest, err := fn(path)
			results[i] = Result{Path: path, Digest: digest, Err: err}
		})
		if err != nil {
			// 提交失败时退化为同步执行，结果仍然完整
			digest, ferr := fn(path)
			results[i] = Result{Path: path, Digest: digest, Err: ferr}
			wg.Done()
		}
	}
	wg.Wait()

	return results
}

func (p *Pool) Close() {
	if p.pool != nil {
		p.pool.Release()
	}
}
