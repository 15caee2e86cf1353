package geometry

import "sort"

// epsilon treats rectangles whose edges sit on the same line as touching, so
// adjacent model proposals collapse into one region instead of leaving seams.
const epsilon = 1e-9

// bounds is a rectangle as corner coordinates, which makes union and overlap
// arithmetic direct.
type bounds struct {
	x0, y0, x1, y1 float64
}

func toBounds(r Rect) bounds {
	return bounds{x0: r.X, y0: r.Y, x1: r.X + r.Width, y1: r.Y + r.Height}
}

func (b bounds) touches(o bounds) bool {
	return b.x0 <= o.x1+epsilon && o.x0 <= b.x1+epsilon &&
		b.y0 <= o.y1+epsilon && o.y0 <= b.y1+epsilon
}

func (b bounds) union(o bounds) bounds {
	if o.x0 < b.x0 {
		b.x0 = o.x0
	}
	if o.y0 < b.y0 {
		b.y0 = o.y0
	}
	if o.x1 > b.x1 {
		b.x1 = o.x1
	}
	if o.y1 > b.y1 {
		b.y1 = o.y1
	}
	return b
}

// Merge collapses overlapping or touching rectangles into their bounding
// boxes. Rectangles are partitioned by page number first: a rectangle without
// a page never merges with a page-scoped one, regardless of coordinates.
//
// Within a partition the clustering runs to a fixed point: every time the
// cluster box grows, all remaining rectangles are scanned again, so a chain of
// rectangles that only connect through intermediates still ends up in a single
// cluster. The merged confidence is the maximum over members that carry one;
// if no member does, the result carries none.
func Merge(rects []Rect) []Rect {
	type partition struct {
		page  *int
		rects []Rect
	}

	byPage := make(map[int]*partition)
	var noPage *partition
	for _, r := range rects {
		if r.PageNumber == nil {
			if noPage == nil {
				noPage = &partition{}
			}
			noPage.rects = append(noPage.rects, r)
			continue
		}
		p, ok := byPage[*r.PageNumber]
		if !ok {
			page := *r.PageNumber
			p = &partition{page: &page}
			byPage[page] = p
		}
		p.rects = append(p.rects, r)
	}

	parts := make([]*partition, 0, len(byPage)+1)
	if noPage != nil {
		parts = append(parts, noPage)
	}
	pages := make([]int, 0, len(byPage))
	for page := range byPage {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	for _, page := range pages {
		parts = append(parts, byPage[page])
	}

	out := make([]Rect, 0, len(rects))
	for _, p := range parts {
		out = append(out, mergePartition(p.rects, p.page)...)
	}
	return out
}

func mergePartition(rects []Rect, page *int) []Rect {
	merged := make([]bool, len(rects))
	out := make([]Rect, 0, len(rects))

	for i := range rects {
		if merged[i] {
			continue
		}
		merged[i] = true
		cluster := toBounds(rects[i])
		conf := rects[i].Confidence

		// Grow the cluster until no unmerged rectangle touches it. A newly
		// absorbed rectangle can extend the box far enough to reach others
		// that did not touch the original seed, hence the outer loop.
		for {
			absorbed := false
			for j := range rects {
				if merged[j] {
					continue
				}
				if !cluster.touches(toBounds(rects[j])) {
					continue
				}
				cluster = cluster.union(toBounds(rects[j]))
				conf = maxConfidence(conf, rects[j].Confidence)
				merged[j] = true
				absorbed = true
			}
			if !absorbed {
				break
			}
		}

		r := Rect{
			X:          cluster.x0,
			Y:          cluster.y0,
			Width:      cluster.x1 - cluster.x0,
			Height:     cluster.y1 - cluster.y0,
			Confidence: conf,
		}
		if page != nil {
			p := *page
			r.PageNumber = &p
		}
		out = append(out, r.Normalized())
	}
	return out
}

func maxConfidence(a, b *float64) *float64 {
	if a == nil {
		return b
	}
	if b == nil || *a >= *b {
		return a
	}
	return b
}
