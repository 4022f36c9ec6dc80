package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		panic(err)
	}
}

// force the timezone the site publishes in, since the machine
// running the check may be anywhere and snapshot/report times
// must stay comparable across runs
func Now() time.Time {
	return time.Now().In(Location)
}
