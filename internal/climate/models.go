package climate

import "time"

// Reading is one computed temperature sample. Readings are append-only: the
// engine writes one per tick and nothing ever mutates them afterwards. Old
// rows may be pruned by retention, which is advisory only.
type Reading struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	Timestamp   time.Time `gorm:"index:idx_readings_ts" json:"timestamp"`
	Temperature float64   `gorm:"column:temperature" json:"temperature"`
}

// TableName keeps the sqlite table name stable across model renames.
func (Reading) TableName() string { return "temperature_readings" }

// DailyRecord holds the running activity totals for one campus day. It is
// created on the first tick of the day, upserted through the day, and read
// back later as part of the rolling baseline.
type DailyRecord struct {
	ID                    uint      `gorm:"primaryKey" json:"-"`
	Date                  time.Time `gorm:"column:campus_date;uniqueIndex" json:"date"`
	TotalPostCount        int       `gorm:"column:total_post_count" json:"totalPostCount"`
	AverageHourlyPostCount float64  `gorm:"column:average_hourly_post_count" json:"averageHourlyPostCount"`
}

func (DailyRecord) TableName() string { return "daily_campus_records" }

// WeatherReport is the reporting view of the latest reading: the clamped
// temperature plus its presentation label. Reports are derived on read and
// never trigger a computation.
type WeatherReport struct {
	Label       string    `json:"label"`
	Temperature float64   `json:"temperature"`
	LastUpdated time.Time `json:"lastUpdated"`
}
