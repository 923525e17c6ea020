package agentprog

import "agentprog/internal/weather"

// The window controller example: the agent perceives the weather and opens
// or closes a window.
type (
	Weather = weather.Weather
	Window  = weather.Window
)

const (
	Sunny = weather.Sunny
	Rainy = weather.Rainy
	Open  = weather.Open
	Close = weather.Close
)

// WeatherPercepts returns every Weather value.
func WeatherPercepts() []Weather {
	return append([]Weather(nil), weather.Percepts...)
}

func ParseWeather(s string) (Weather, error) {
	return weather.ParseWeather(s)
}

// WeatherReflex opens the window when it is sunny and closes it when it rains.
func WeatherReflex() *Reflex[Weather, Weather, Window] {
	return weather.ReflexProgram()
}

// WeatherTable covers every weather history up to lifetime percepts. It
// fails with ErrTableTooLarge once the table would exceed maxEntries.
func WeatherTable(lifetime int, maxEntries uint64) (*Table[Weather, Window], error) {
	return weather.LifetimeTable(lifetime, maxEntries)
}

// WeatherStartupTable covers the first percept only.
func WeatherStartupTable() *Table[Weather, Window] {
	return weather.StartupTable()
}
