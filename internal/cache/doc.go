// Package cache provides a generic LRU cache.
//
//	c := cache.New[string, []byte](64)
//	code, err := c.GetOrCreate("circle.wgsl/spirv", compile)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
