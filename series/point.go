package series

import (
	"fmt"
	"time"

	"github.com/icodeforyou/elpris-go/hours"
)

// PricePoint is one hour's spot price. The zero value is not a valid point,
// use NewPricePoint.
type PricePoint struct {
	start time.Time
	price float64 // SEK per kWh, may be negative
}

func NewPricePoint(start time.Time, price float64) (PricePoint, error) {
	if !hours.IsHourAligned(start) {
		return PricePoint{}, fmt.Errorf("price point start %s is not hour aligned", start.Format(time.RFC3339))
	}
	return PricePoint{start: start.In(hours.Stockholm()), price: price}, nil
}

func MustPricePoint(start time.Time, price float64) PricePoint {
	p, err := NewPricePoint(start, price)
	if err != nil {
		panic(err)
	}
	return p
}

func (p PricePoint) Start() time.Time {
	return p.start
}

func (p PricePoint) End() time.Time {
	return p.start.Add(time.Hour)
}

func (p PricePoint) Price() float64 {
	return p.price
}

func (p PricePoint) String() string {
	return fmt.Sprintf("%s %s-%s %.4f",
		hours.FormatDate(p.start), hours.FormatHour(p.start), hours.FormatHour(p.End()), p.price)
}
