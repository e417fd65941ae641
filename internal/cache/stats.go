package cache

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits      uint64 // Get calls that found the key
	Misses    uint64 // Get calls that did not
	Evictions uint64 // entries removed by capacity pressure
	Len       int
	Capacity  int
}

// HitRatio returns Hits / (Hits + Misses), or 0 before any Get.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
