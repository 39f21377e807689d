package model

import "strings"

// ChannelInfo describes one EmotiBit data type code.
type ChannelInfo struct {
	Code        string
	Description string
	Units       string
}

// Channels lists the EmotiBit data types in export order.
var Channels = []ChannelInfo{
	{Code: "AX", Description: "Accelerometer X", Units: "g"},
	{Code: "AY", Description: "Accelerometer Y", Units: "g"},
	{Code: "AZ", Description: "Accelerometer Z", Units: "g"},
	{Code: "GX", Description: "Gyroscope X", Units: "deg/s"},
	{Code: "GY", Description: "Gyroscope Y", Units: "deg/s"},
	{Code: "GZ", Description: "Gyroscope Z", Units: "deg/s"},
	{Code: "EA", Description: "Electrodermal Activity", Units: "uS"},
	{Code: "EL", Description: "Electrodermal Level", Units: "uS"},
	{Code: "SF", Description: "Skin Conductance Response Frequency", Units: "count/min"},
	{Code: "SA", Description: "Skin Conductance Response Amplitude", Units: "uS"},
	{Code: "SR", Description: "Skin Conductance Response Rise Time", Units: "s"},
	{Code: "T1", Description: "Temperature", Units: "degC"},
	{Code: "TH", Description: "Thermopile Temperature", Units: "degC"},
	{Code: "PI", Description: "PPG Infrared", Units: "a.u."},
	{Code: "PR", Description: "PPG Red", Units: "a.u."},
	{Code: "PG", Description: "PPG Green", Units: "a.u."},
	{Code: "BI", Description: "Inter-beat Interval", Units: "ms"},
	{Code: "HR", Description: "Heart Rate", Units: "bpm"},
}

// LookupChannel returns catalog metadata for code, ignoring case.
func LookupChannel(code string) (ChannelInfo, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, ch := range Channels {
		if ch.Code == code {
			return ch, true
		}
	}
	return ChannelInfo{}, false
}
