package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/lovawin/sosh-test-sub004/base/log"
)

const (
	ddClientsSize    = 16 // needs to be 2^n
	ddClientsIdxMask = ddClientsSize - 1

	// DdPort is the dogstatsd agent port
	DdPort = 8125

	// buffer 10 counters before sending to statsd
	bufferMetrics = 10
)

var (
	initOnce = sync.Once{}

	// ddClientsIdx picks ddClients round robin
	ddClientsIdx = int32(0)
	ddClients    []statsCli
)

// initDDClient falls back to LogClient when datadog_host is not configured.
func initDDClient() {
	host := viper.GetString("datadog_host")
	ddClients = make([]statsCli, ddClientsSize)
	if host == "" {
		log.Log().Info("datadog_host not set, metrics go to debug log")
		for i := range ddClients {
			ddClients[i] = &LogClient{}
		}
		return
	}

	addr := fmt.Sprintf("%s:%d", host, DdPort)
	for i := range ddClients {
		log.Log().WithFields(log.Fields{"addr": addr, "idx": i}).Info("connecting to datadog agent")
		cli, err := statsd.NewBuffered(addr, bufferMetrics)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Panic("can't talk to datadog agent")
		}
		ddClients[i] = cli
	}
}

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

func nextClient() statsCli {
	initOnce.Do(initDDClient)
	return ddClients[atomic.AddInt32(&ddClientsIdx, 1)&ddClientsIdxMask]
}

// DDMetrics sends metrics to the datadog agent with a fixed set of tags.
type DDMetrics struct {
	ddTags []string
}

func (dm *DDMetrics) tags(tags []string) []string {
	out := make([]string, 0, len(dm.ddTags)+len(tags)/2)
	out = append(out, dm.ddTags...)
	return append(out, parseTag(tags)...)
}

func logBumpErr(err error, key string, val interface{}, fn string) {
	if err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": fn}).Error("Bump fail")
	}
}

// BumpAvg is recorded as a gauge, datadog has no plain average type.
func (dm *DDMetrics) BumpAvg(key string, val, sampleRate float64, tags ...string) {
	logBumpErr(nextClient().Gauge(key, val, dm.tags(tags), sampleRate), key, val, "BumpAvg")
}

// BumpSum bumps the sum for the given key.
func (dm *DDMetrics) BumpSum(key string, val, sampleRate float64, tags ...string) {
	logBumpErr(nextClient().Count(key, int64(val), dm.tags(tags), sampleRate), key, val, "BumpSum")
}

// BumpHistogram bumps the histogram for the given key.
func (dm *DDMetrics) BumpHistogram(key string, val, sampleRate float64, tags ...string) {
	logBumpErr(nextClient().Histogram(key, val, dm.tags(tags), sampleRate), key, val, "BumpHistogram")
}

// BumpTime starts a timer which is recorded in milliseconds on End().
func (dm *DDMetrics) BumpTime(key string, sampleRate float64, tags ...string) Ender {
	initOnce.Do(initDDClient)
	return &ddTimeTracker{
		start:      time.Now(),
		key:        key,
		tags:       dm.tags(tags),
		sampleRate: sampleRate,
	}
}

// parseTag turns ["k1", "v1", "k2", "v2"] into ["k1:v1", "k2:v2"].
func parseTag(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	if len(tags)%2 != 0 {
		log.Log().WithField("tags", tags).Panic("tag length needs to be multiple of 2")
	}
	arr := make([]string, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		arr[i/2] = tags[i] + ":" + tags[i+1]
	}
	return arr
}

type ddTimeTracker struct {
	start      time.Time
	key        string
	tags       []string
	sampleRate float64
}

func (dt *ddTimeTracker) End() {
	dur := float64(time.Since(dt.start)) / float64(time.Millisecond)
	logBumpErr(nextClient().TimeInMilliseconds(dt.key, dur, dt.tags, dt.sampleRate), dt.key, dur, "BumpTime")
}
