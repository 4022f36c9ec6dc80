package hako

import (
	"github.com/sang765/tmr-novel-tracking/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("tmr.lib.scrapers.hako")
var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput must be called before NewClient to take effect.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
