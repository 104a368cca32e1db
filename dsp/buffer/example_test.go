package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-phy/dsp/buffer"
)

func ExamplePool() {
	pool := buffer.NewPool()

	b := pool.Get(4)
	copy(b.Samples(), []complex128{1, 1i, -1, -1i})
	fmt.Println(b.Len(), b.Samples()[1])
	pool.Put(b)

	// Output:
	// 4 (0+1i)
}
