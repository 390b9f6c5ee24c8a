// Package charts manages the financial visualizations: one registry of
// chart instances keyed by their mount-point id, built on go-echarts.
//
// The registry tolerates sloppy callers: updating a chart that does
// not exist and destroying one twice are no-ops, never faults. All
// monetary text on tooltips and axis ticks goes through the currency
// formatter.
package charts

import (
	"io"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/shopspring/decimal"

	"fluxo/internal/currency"
	"fluxo/internal/log"
)

// Kind names the three prebuilt chart shapes.
type Kind string

const (
	KindLine  Kind = "line"  // balance trend over time
	KindDonut Kind = "donut" // category breakdown
	KindBar   Kind = "bar"   // income vs. expense
)

// TimePoint is one sample of the balance trend.
type TimePoint struct {
	Label string
	Value decimal.Decimal
}

// Slice is one category share of the breakdown.
type Slice struct {
	Label string
	Value decimal.Decimal
	Color string
}

// Pair is one period of the income-versus-expense comparison.
type Pair struct {
	Label   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// renderer is what every go-echarts chart type offers.
type renderer interface {
	Render(w io.Writer) error
}

// Chart is one registered instance. The wrapper identity is stable
// across updates; only the bound data changes.
type Chart struct {
	ID   string
	Kind Kind

	inst renderer
	data any
}

// Data returns the data the chart currently displays.
func (c *Chart) Data() any {
	return c.data
}

// Manager owns the chart registry. It is injected where needed instead
// of living as ambient global state.
type Manager struct {
	mu     sync.Mutex
	charts map[string]*Chart
	logger *log.Logger
}

// NewManager creates an empty registry.
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(log.Config{Component: "charts"})
	}
	return &Manager{
		charts: make(map[string]*Chart),
		logger: logger,
	}
}

// Get returns the chart bound to id, or nil.
func (m *Manager) Get(id string) *Chart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.charts[id]
}

// Count returns how many charts are registered.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.charts)
}

// CreateBalanceTrendChart builds the time-series line chart bound to
// id, registers it and returns it. Creating over an existing id
// replaces the instance.
func (m *Manager) CreateBalanceTrendChart(id string, points []TimePoint) *Chart {
	c := &Chart{ID: id, Kind: KindLine}
	c.inst, c.data = buildLine(points), points
	m.register(c)
	return c
}

// CreateCategoryBreakdownChart builds the proportion donut bound to id.
func (m *Manager) CreateCategoryBreakdownChart(id string, slices []Slice) *Chart {
	c := &Chart{ID: id, Kind: KindDonut}
	c.inst, c.data = buildDonut(slices), slices
	m.register(c)
	return c
}

// CreateIncomeExpenseChart builds the grouped bar chart bound to id.
func (m *Manager) CreateIncomeExpenseChart(id string, pairs []Pair) *Chart {
	c := &Chart{ID: id, Kind: KindBar}
	c.inst, c.data = buildBar(pairs), pairs
	m.register(c)
	return c
}

func (m *Manager) register(c *Chart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charts[c.ID] = c
	m.logger.Debug("chart registered", log.FieldChartID, c.ID, "kind", string(c.Kind))
}

// Update rebinds newData to the chart registered under id, keeping the
// wrapper in place. Updating an id that is not registered, including
// one already destroyed, is a no-op.
func (m *Manager) Update(id string, newData any) {
	m.mu.Lock()
	c := m.charts[id]
	m.mu.Unlock()
	if c == nil {
		return
	}

	switch data := newData.(type) {
	case []TimePoint:
		if c.Kind == KindLine {
			c.inst, c.data = buildLine(data), data
		}
	case []Slice:
		if c.Kind == KindDonut {
			c.inst, c.data = buildDonut(data), data
		}
	case []Pair:
		if c.Kind == KindBar {
			c.inst, c.data = buildBar(data), data
		}
	}
}

// Destroy releases the instance under id and removes the registry
// entry. Destroying twice is a no-op.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.charts[id]; !ok {
		return
	}
	delete(m.charts, id)
	m.logger.Debug("chart destroyed", log.FieldChartID, id)
}

// Render writes the chart registered under id to w.
func (m *Manager) Render(id string, w io.Writer) error {
	c := m.Get(id)
	if c == nil {
		return nil
	}
	return c.inst.Render(w)
}

// All three shapes share one formatting policy: monetary text comes
// from the currency formatter, on ticks through the axis template and
// on tooltips through pre-formatted data-point names.
const axisTickFormat = "R$ {value}"

func buildLine(points []TimePoint) renderer {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: true, Formatter: axisTickFormat},
		}),
	)

	labels := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		labels[i] = p.Label
		data[i] = opts.LineData{
			Value: p.Value.InexactFloat64(),
			Name:  currency.Display(p.Value),
		}
	}
	line.SetXAxis(labels).AddSeries("Saldo", data)
	return line
}

func buildDonut(slices []Slice) renderer {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Formatter: "{b}: {d}%"}),
	)

	data := make([]opts.PieData, len(slices))
	for i, s := range slices {
		data[i] = opts.PieData{
			Name:  s.Label + " (" + currency.Display(s.Value) + ")",
			Value: s.Value.InexactFloat64(),
			ItemStyle: &opts.ItemStyle{
				Color: s.Color,
			},
		}
	}
	pie.AddSeries("Categorias", data).SetSeriesOptions(
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
	)
	return pie
}

func buildBar(pairs []Pair) renderer {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: true, Formatter: axisTickFormat},
		}),
	)

	labels := make([]string, len(pairs))
	income := make([]opts.BarData, len(pairs))
	expense := make([]opts.BarData, len(pairs))
	for i, p := range pairs {
		labels[i] = p.Label
		income[i] = opts.BarData{
			Value: p.Income.InexactFloat64(),
			Name:  currency.Display(p.Income),
		}
		expense[i] = opts.BarData{
			Value: p.Expense.InexactFloat64(),
			Name:  currency.Display(p.Expense),
		}
	}
	bar.SetXAxis(labels).
		AddSeries("Receitas", income).
		AddSeries("Despesas", expense)
	return bar
}
