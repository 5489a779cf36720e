// Package parallel splits a pixel grid into tiles and shades them on a
// work-stealing worker pool.
package parallel

import "image"

// TileSize is the default edge length of a tile in pixels.
const TileSize = 64

// Tiles partitions bounds into size x size rectangles in row-major order.
// Edge tiles are clipped to bounds. A size <= 0 selects TileSize.
func Tiles(bounds image.Rectangle, size int) []image.Rectangle {
	if bounds.Empty() {
		return nil
	}
	if size <= 0 {
		size = TileSize
	}
	cols := (bounds.Dx() + size - 1) / size
	rows := (bounds.Dy() + size - 1) / size
	out := make([]image.Rectangle, 0, cols*rows)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += size {
		for x := bounds.Min.X; x < bounds.Max.X; x += size {
			out = append(out, image.Rect(x, y, x+size, y+size).Intersect(bounds))
		}
	}
	return out
}

// ForEachTile runs fn once per tile of bounds on pool and waits. With a nil
// pool the tiles run on the calling goroutine.
func ForEachTile(pool *WorkerPool, bounds image.Rectangle, size int, fn func(tile image.Rectangle)) {
	tiles := Tiles(bounds, size)
	if pool == nil || pool.Workers() == 1 || len(tiles) == 1 {
		for _, t := range tiles {
			fn(t)
		}
		return
	}
	tasks := make([]func(), len(tiles))
	for i, t := range tiles {
		tasks[i] = func() { fn(t) }
	}
	pool.Run(tasks)
}
