// Package view は画面の各領域（region）に対する更新を Patch として表現します。
//
// Presenter は View に Patch を適用するだけで、DOM やブラウザの存在を知りません。
// 実際の描画は WebSocket 越しにブラウザ側の小さな適用スクリプトが行います。
package view

import (
	"strconv"
	"sync"
)

// Region identifies a named element of the page.
type Region string

const (
	RegionSymbolSelect   Region = "symbol"
	RegionSymbolHeader   Region = "symbolHeader"
	RegionSymbolLogo     Region = "symbolLogo"
	RegionSymbolTitle    Region = "symbolTitle"
	RegionCurrentPrice   Region = "curPrice"
	RegionPredictedPrice Region = "predPrice"
	RegionPriceChange    Region = "priceChange"
	RegionUpdatedAt      Region = "updatedAt"
	RegionConfidenceFill Region = "confidenceFill"
	RegionConfidenceText Region = "confidenceText"
	RegionBias           Region = "biasLabel"
	RegionStatus         Region = "predictionStatus"
	RegionChart          Region = "snapshotContainer"

	RegionAccuracyFill        Region = "accuracyFill"
	RegionAccuracyText        Region = "accuracyText"
	RegionMAEText             Region = "maeText"
	RegionAccuracyGeneratedAt Region = "accuracyGeneratedAt"
	RegionAccuracyTotal       Region = "accuracyTotal"

	RegionMarketList    Region = "swipeContainer"
	RegionMarketUpdated Region = "lastUpdated"
	RegionGainersButton Region = "btnGainers"
	RegionLosersButton  Region = "btnLosers"
)

// Op is the kind of mutation applied to a region.
type Op string

const (
	OpText    Op = "text"
	OpHTML    Op = "html"
	OpWidth   Op = "width"
	OpDisplay Op = "display"
	OpSrc     Op = "src"
	OpClass   Op = "class"
	OpOptions Op = "options"
)

// Option is one entry of a <select> region.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// Patch は1つの領域に対する1つの更新です。
type Patch struct {
	Region  Region   `json:"region"`
	Op      Op       `json:"op"`
	Value   string   `json:"value"`
	Options []Option `json:"options,omitempty"`
}

// View receives patches from presenters.
type View interface {
	Apply(patches ...Patch)
}

// Func adapts an ordinary function to View.
type Func func(patches ...Patch)

func (f Func) Apply(patches ...Patch) { f(patches...) }

// Discard drops every patch.
var Discard View = Func(func(...Patch) {})

func Text(r Region, s string) Patch { return Patch{Region: r, Op: OpText, Value: s} }

func HTML(r Region, s string) Patch { return Patch{Region: r, Op: OpHTML, Value: s} }

// Width sets a percentage width, e.g. Width(r, 72.35) → "72.35%".
func Width(r Region, pct float64) Patch {
	return Patch{Region: r, Op: OpWidth, Value: strconv.FormatFloat(pct, 'f', -1, 64) + "%"}
}

// Show makes a region visible using the given CSS display value.
func Show(r Region, display string) Patch { return Patch{Region: r, Op: OpDisplay, Value: display} }

func Hide(r Region) Patch { return Patch{Region: r, Op: OpDisplay, Value: "none"} }

func Src(r Region, url string) Patch { return Patch{Region: r, Op: OpSrc, Value: url} }

func Class(r Region, class string) Patch { return Patch{Region: r, Op: OpClass, Value: class} }

func Options(r Region, opts []Option) Patch {
	return Patch{Region: r, Op: OpOptions, Options: opts}
}

// Recorder は適用された Patch をメモリ上に記録する View です。
// HTTP ハンドラでのスナップショット生成とテストで使用します。
type Recorder struct {
	mu      sync.Mutex
	patches []Patch
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Apply(patches ...Patch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patches = append(r.patches, patches...)
}

// Patches returns a copy of every patch applied so far.
func (r *Recorder) Patches() []Patch {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Patch, len(r.patches))
	copy(out, r.patches)
	return out
}

// Last returns the most recent patch for region and op.
func (r *Recorder) Last(region Region, op Op) (Patch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.patches) - 1; i >= 0; i-- {
		if p := r.patches[i]; p.Region == region && p.Op == op {
			return p, true
		}
	}
	return Patch{}, false
}

// Value is Last(...).Value, or "" when the region was never patched.
func (r *Recorder) Value(region Region, op Op) string {
	p, _ := r.Last(region, op)
	return p.Value
}

// Reset forgets all recorded patches.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patches = nil
}
