package evaluation

import "time"

// Category enum
type Category string

const (
	CategoryNature    Category = "NATURE"
	CategoryWildlife  Category = "WILDLIFE"
	CategoryUrban     Category = "URBAN"
	CategoryLandscape Category = "LANDSCAPE"
	CategoryPortrait  Category = "PORTRAIT"
)

// Categories is the fixed enumeration a record's category is drawn from.
var Categories = []Category{
	CategoryNature,
	CategoryWildlife,
	CategoryUrban,
	CategoryLandscape,
	CategoryPortrait,
}

// Status enum
type Status string

const (
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusWarning   Status = "warning"
)

// Region enum
type Region string

const (
	RegionUnitedStates Region = "United States"
	RegionEurope       Region = "Europe"
	RegionAsia         Region = "Asia"
)

// Regions lists every region a record carries commentary for.
var Regions = []Region{RegionUnitedStates, RegionEurope, RegionAsia}

// MetadataKeys is the fixed attribute set describing scene content.
var MetadataKeys = []string{
	"objects",
	"foreground",
	"background",
	"resonatingObject",
	"colors",
	"dominant",
	"scene",
	"context",
	"theme",
	"mood",
	"action",
	"location",
	"season",
	"timeOfDay",
	"geographicIndicators",
}

// MaxBatchSize is the upload policy: images beyond the fifth are dropped.
const MaxBatchSize = 5

// ImageDescriptor is one uploaded image as handed over by the uploader.
type ImageDescriptor struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// RegionalInsight value object
type RegionalInsight struct {
	AudiencePerception string `json:"audiencePerception"`
	Geopol             string `json:"geopol"`
}

// AnalysisRecord is the annotated result for one image of a batch.
type AnalysisRecord struct {
	ImageDescriptor

	ID                 int                        `json:"id"`
	Category           Category                   `json:"category"`
	Score              float64                    `json:"score"`
	Status             Status                     `json:"status"`
	Recommendations    []string                   `json:"recommendations"`
	RealTimeAnalysis   string                     `json:"realTimeAnalysis"`
	HistoricalAnalysis string                     `json:"historicalAnalysis"`
	RegionalAnalysis   map[Region]RegionalInsight `json:"regionalAnalysis"`
	Metadata           map[string]string          `json:"metadata"`
}

// StatusCounts is the per-bucket view shown on the filter tabs.
type StatusCounts struct {
	All       int `json:"all"`
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Warning   int `json:"warning"`
}

// BatchID identifier type
type BatchID string

// Batch groups the records produced by one analyze action.
type Batch struct {
	ID        BatchID          `json:"batch_id"`
	OwnerID   string           `json:"owner_id"`
	CreatedAt time.Time        `json:"created_at"`
	Records   []AnalysisRecord `json:"records"`
}
