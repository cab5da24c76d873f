package config

import "time"

const defaultCacheTTL = 5 * time.Minute

// GetCacheTTL reports how long memoized record sets stay valid.
func GetCacheTTL() time.Duration {
	timer := GetConfig().Extractor.CacheTimer
	if timer.Days == 0 && timer.Hours == 0 && timer.Minutes == 0 && timer.Seconds == 0 {
		return defaultCacheTTL
	}
	return CalculateBetweenTime(timer)
}

// CalculateBetweenTime converts a Timer into a duration, enforcing a one second
// minimum so a misconfigured timer never busy-loops a consumer.
func CalculateBetweenTime(timer Timer) time.Duration {
	intervalMs := CalculateMilliseconds(timer)

	minInterval := uint64(1000)
	if intervalMs < minInterval {
		intervalMs = minInterval
	}

	return time.Duration(intervalMs) * time.Millisecond
}

func CalculateMilliseconds(timer Timer) uint64 {
	return uint64(timer.Days)*24*60*60*1000 +
		uint64(timer.Hours)*60*60*1000 +
		uint64(timer.Minutes)*60*1000 +
		uint64(timer.Seconds)*1000
}
