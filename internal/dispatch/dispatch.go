package dispatch

// Dispatcher turns files into tasks using the conversion and cleanup rule tables.
type Dispatcher struct {
	settings   Settings
	conversion []Rule
	cleanup    []Rule
}

// New returns a dispatcher over the package rule tables.
func New(settings Settings) *Dispatcher {
	return &Dispatcher{
		settings:   settings,
		conversion: ConversionRules,
		cleanup:    CleanupRules,
	}
}

// Conversion returns the conversion task for f, if any rule matches.
func (d *Dispatcher) Conversion(f File) (Task, bool) {
	return d.first(d.conversion, f)
}

// Cleanup returns the removal task for f, if any rule matches.
func (d *Dispatcher) Cleanup(f File) (Task, bool) {
	return d.first(d.cleanup, f)
}

// PlanConversions lists conversion tasks in file order.
func (d *Dispatcher) PlanConversions(files []File) []Task {
	return d.plan(d.conversion, files)
}

// PlanCleanup lists removal tasks in file order.
func (d *Dispatcher) PlanCleanup(files []File) []Task {
	return d.plan(d.cleanup, files)
}

func (d *Dispatcher) first(rules []Rule, f File) (Task, bool) {
	for _, rule := range rules {
		if rule.Matches(f) {
			return rule.Build(f, d.settings), true
		}
	}
	return Task{}, false
}

func (d *Dispatcher) plan(rules []Rule, files []File) []Task {
	var tasks []Task
	for _, f := range files {
		if task, ok := d.first(rules, f); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}
