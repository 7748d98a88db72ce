package domain

import (
	"fmt"
	"sync"
)

// SurfaceParams 敏感度网格的计算参数
// 网格在（标的价格 × 波动率）二维上展开，K/T/R 固定
type SurfaceParams struct {
	K float64
	T float64
	R float64

	PriceMin float64
	PriceMax float64
	VolMin   float64
	VolMax   float64

	// Rows 波动率方向格数，Cols 价格方向格数
	Rows int
	Cols int

	// Workers 并发度，<= 0 时退化为单协程
	Workers int
}

// Surface 敏感度网格结果
// Call/Put 按 [波动率行][价格列] 排列，与 Vols/Prices 轴一一对应
type Surface struct {
	Prices []float64
	Vols   []float64
	Call   [][]float64
	Put    [][]float64
}

// Validate 校验网格参数
func (p SurfaceParams) Validate() error {
	switch {
	case p.K <= 0:
		return fmt.Errorf("%w: strike price must be positive, got %v", ErrInvalidParameter, p.K)
	case p.T < 0:
		return fmt.Errorf("%w: time to maturity must be non-negative, got %v", ErrInvalidParameter, p.T)
	case p.PriceMin <= 0 || p.PriceMax < p.PriceMin:
		return fmt.Errorf("%w: bad price range [%v, %v]", ErrInvalidParameter, p.PriceMin, p.PriceMax)
	case p.VolMin <= 0 || p.VolMax < p.VolMin:
		return fmt.Errorf("%w: bad volatility range [%v, %v]", ErrInvalidParameter, p.VolMin, p.VolMax)
	case p.Rows < 2 || p.Cols < 2:
		return fmt.Errorf("%w: grid must be at least 2x2, got %dx%d", ErrInvalidParameter, p.Rows, p.Cols)
	}
	return nil
}

// ComputeSurface 计算看涨/看跌价值网格
// 每个格子是一次独立的快照定价，按行分派给 worker 并发计算
func ComputeSurface(p SurfaceParams) (*Surface, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	surf := &Surface{
		Prices: Linspace(p.PriceMin, p.PriceMax, p.Cols),
		Vols:   Linspace(p.VolMin, p.VolMax, p.Rows),
		Call:   make([][]float64, p.Rows),
		Put:    make([][]float64, p.Rows),
	}

	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > p.Rows {
		workers = p.Rows
	}

	rowCh := make(chan int, p.Rows)
	for i := 0; i < p.Rows; i++ {
		rowCh <- i
	}
	close(rowCh)

	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rowCh {
				if err := surf.fillRow(i, p); err != nil {
					errCh <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}
	return surf, nil
}

// fillRow 计算一行（固定波动率，价格从低到高）
func (s *Surface) fillRow(i int, p SurfaceParams) error {
	vol := s.Vols[i]
	call := make([]float64, len(s.Prices))
	put := make([]float64, len(s.Prices))

	for j, price := range s.Prices {
		snap, err := NewSnapshot(price, p.K, p.T, p.R, vol)
		if err != nil {
			return err
		}
		call[j] = snap.CallPrice()
		put[j] = snap.PutPrice()
	}

	s.Call[i] = call
	s.Put[i] = put
	return nil
}

// Shift 将全部格子减去固定值，用于 P&L 展示
func (s *Surface) Shift(callOffset, putOffset float64) {
	for i := range s.Call {
		for j := range s.Call[i] {
			s.Call[i][j] -= callOffset
			s.Put[i][j] -= putOffset
		}
	}
}

// Linspace 生成 [min, max] 上的 n 个等距采样点，端点取到精确值
func Linspace(min, max float64, n int) []float64 {
	if n < 2 {
		return []float64{min}
	}
	step := (max - min) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	out[n-1] = max
	return out
}
