package resolve

type Summary struct {
	Resolved int
	Clean    int
	NotFound int
	Errors   int
}

type Report struct {
	Results []FileResult
}

func (r Report) Summary() Summary {
	var s Summary
	for _, res := range r.Results {
		switch res.Status {
		case StatusResolved:
			s.Resolved++
		case StatusClean:
			s.Clean++
		case StatusNotFound:
			s.NotFound++
		case StatusError:
			s.Errors++
		}
	}
	return s
}

// Resolved lists the paths whose content was rewritten.
func (r Report) Resolved() []string {
	var paths []string
	for _, res := range r.Results {
		if res.Status == StatusResolved {
			paths = append(paths, res.Path)
		}
	}
	return paths
}

func (r Report) HasErrors() bool {
	return r.Summary().Errors > 0
}
