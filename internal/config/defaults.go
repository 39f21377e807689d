package config

import "emotiplot/internal/model"

const (
	defaultLogDir              = "~/.local/share/emotiplot/logs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultTimezone            = "America/New_York"
	defaultPeriod              = PeriodAuto
	defaultSignalTimeColumn    = "LocalTimestamp"
	defaultScheduleTimeColumn  = "time"
	defaultScheduleLabelColumn = "song_name"
	defaultScoreColumn         = "score"
	defaultObservationColumn   = "observation"
	defaultSessionEndMarker    = "music end"
	defaultFigureWidth         = 22
	defaultFigureHeight        = 6
	defaultFigureDPI           = 150
	defaultLabelIncrement      = 0.3
	defaultLineWidth           = 1.5
	defaultAnnotationColor     = "#808080"
	defaultAnnotationOpacity   = 0.2
	defaultSessionColor        = "#b0b0b0"
	defaultLineColor           = "#4169e1"
	defaultWorkers             = 1
	sessionDateLayout          = "2006-01-02"
)

// Session periods.
const (
	PeriodAuto = "auto"
	PeriodAM   = "am"
	PeriodPM   = "pm"
)

// channelColors assigns each EmotiBit family a line colour.
var channelColors = map[string]string{
	"AX": "#4169e1", "AY": "#4169e1", "AZ": "#4169e1",
	"GX": "#2e8b57", "GY": "#2e8b57", "GZ": "#2e8b57",
	"EA": "#d2691e", "EL": "#d2691e",
	"SF": "#8b008b", "SA": "#8b008b", "SR": "#8b008b",
	"T1": "#b22222", "TH": "#b22222",
	"PI": "#8b0000", "PR": "#dc143c", "PG": "#228b22",
	"BI": "#483d8b", "HR": "#c71585",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Session: Session{
			Timezone:   defaultTimezone,
			Period:     defaultPeriod,
			TimeColumn: defaultSignalTimeColumn,
		},
		Schedule: Schedule{
			TimeColumn:        defaultScheduleTimeColumn,
			LabelColumn:       defaultScheduleLabelColumn,
			ScoreColumn:       defaultScoreColumn,
			ObservationColumn: defaultObservationColumn,
			SessionEndMarker:  defaultSessionEndMarker,
		},
		Figure: Figure{
			Width:          defaultFigureWidth,
			Height:         defaultFigureHeight,
			DPI:            defaultFigureDPI,
			LabelIncrement: defaultLabelIncrement,
			LineWidth:      defaultLineWidth,
		},
		Annotation: Annotation{
			Color:          defaultAnnotationColor,
			Opacity:        defaultAnnotationOpacity,
			SessionShading: true,
			SessionColor:   defaultSessionColor,
		},
		Render: Render{
			Workers: defaultWorkers,
		},
		Channels: defaultChannels(),
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultChannels() map[string]Channel {
	out := make(map[string]Channel, len(model.Channels))
	for _, ch := range model.Channels {
		color, ok := channelColors[ch.Code]
		if !ok {
			color = defaultLineColor
		}
		out[ch.Code] = Channel{
			Description: ch.Description,
			Units:       ch.Units,
			Color:       color,
		}
	}
	return out
}
