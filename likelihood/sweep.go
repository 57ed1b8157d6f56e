package likelihood

import (
	"runtime"

	"github.com/SFUStatgen/TJ2022/pedigree"
)

// Point is a single likelihood evaluation on the tau grid.
type Point struct {
	Tau        float64 `json:"tau"`
	Likelihood float64 `json:"likelihood"`
}

// Grid returns n equally spaced tau values covering [min, max]
// inclusive.
func Grid(min, max float64, n int) []float64 {
	grid := make([]float64, n)
	if n == 1 {
		grid[0] = min
		return grid
	}
	step := (max - min) / float64(n-1)
	for i := range grid {
		grid[i] = min + float64(i)*step
	}
	return grid
}

// Sweep evaluates the likelihood of the configuration on every tau of
// the grid. Each evaluation rebuilds its own network (the tables
// depend on tau) and runs independently on a worker; points are
// returned in grid order.
func Sweep(ped *pedigree.Pedigree, grid []float64, config Config) ([]Point, error) {
	points := make([]Point, len(grid))
	errs := make([]error, len(grid))

	nWorkers := runtime.GOMAXPROCS(0)
	if nWorkers > len(grid) {
		nWorkers = len(grid)
	}
	tasks := make(chan int, len(grid))
	done := make(chan struct{}, nWorkers)
	for w := 0; w < nWorkers; w++ {
		go func() {
			for i := range tasks {
				l, err := Compute(ped, grid[i], config)
				points[i] = Point{Tau: grid[i], Likelihood: l}
				errs[i] = err
			}
			done <- struct{}{}
		}()
	}
	for i := range grid {
		tasks <- i
	}
	close(tasks)
	for w := 0; w < nWorkers; w++ {
		<-done
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}
