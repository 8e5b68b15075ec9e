package resolver

import (
	"context"
	"sync"

	"menu-recommender/internal/infrastructure/config"
	"menu-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// job 工作池任務
type job struct {
	index int
	ref   DishRef
}

// Pool 菜名解析工作池
// 比對只讀不寫共用的食譜索引，批次解析可以安全並行
type Pool struct {
	resolver *Resolver
	workers  int
	maxSize  int
}

// NewPool 建立解析工作池
func NewPool(r *Resolver, cfg config.QueueConfig) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Pool{
		resolver: r,
		workers:  workers,
		maxSize:  maxSize,
	}
}

// ResolveAll 批次解析菜名，保留輸入順序
// 超出 maxSize 的部分直接截斷，避免單一請求佔住全部 worker
func (p *Pool) ResolveAll(ctx context.Context, refs []DishRef) []ResolvedDish {
	if len(refs) > p.maxSize {
		common.LogWarn("批次解析數量超過上限，已截斷",
			zap.Int("requested", len(refs)),
			zap.Int("max_size", p.maxSize),
		)
		refs = refs[:p.maxSize]
	}

	results := make([]ResolvedDish, len(refs))
	if len(refs) == 0 {
		return results
	}

	workers := p.workers
	if workers > len(refs) {
		workers = len(refs)
	}

	jobs := make(chan job)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				recipe, ok := p.resolver.Resolve(j.ref.Name)
				if !ok {
					results[j.index] = ResolvedDish{Ref: j.ref}
					continue
				}
				results[j.index] = ResolvedDish{Ref: j.ref, Recipe: recipe}
			}
		}()
	}

	for i, ref := range refs {
		select {
		case jobs <- job{index: i, ref: ref}:
		case <-ctx.Done():
			// 請求被取消，剩下的菜名視為未命中
			for k := i; k < len(refs); k++ {
				results[k] = ResolvedDish{Ref: refs[k]}
			}
			close(jobs)
			wg.Wait()
			return results
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
