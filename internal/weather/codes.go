package weather

// Condition is the presentation of a WMO weather code.
type Condition struct {
	Icon        string
	Description string
}

// UnknownCondition is shown for codes missing from the table.
var UnknownCondition = Condition{Icon: "🌡️", Description: "Н/Д"}

var conditions = map[int]Condition{
	0:  {"☀️", "Ясно"},
	1:  {"🌤️", "Преимущественно ясно"},
	2:  {"⛅", "Переменная облачность"},
	3:  {"☁️", "Пасмурно"},
	45: {"🌫️", "Туман"},
	48: {"🌫️", "Изморозь"},
	51: {"🌦️", "Лёгкая морось"},
	53: {"🌦️", "Морось"},
	55: {"🌧️", "Сильная морось"},
	56: {"🌧️", "Ледяная морось"},
	57: {"🌧️", "Сильная ледяная морось"},
	61: {"🌧️", "Небольшой дождь"},
	63: {"🌧️", "Дождь"},
	65: {"🌧️", "Сильный дождь"},
	66: {"🌧️", "Ледяной дождь"},
	67: {"🌧️", "Сильный ледяной дождь"},
	71: {"🌨️", "Небольшой снег"},
	73: {"🌨️", "Снег"},
	75: {"❄️", "Сильный снег"},
	77: {"🌨️", "Снежные зёрна"},
	80: {"🌦️", "Небольшой ливень"},
	81: {"🌧️", "Ливень"},
	82: {"⛈️", "Сильный ливень"},
	85: {"🌨️", "Небольшой снегопад"},
	86: {"❄️", "Сильный снегопад"},
	95: {"⛈️", "Гроза"},
	96: {"⛈️", "Гроза с градом"},
	99: {"⛈️", "Гроза с сильным градом"},
}

// LookupCondition returns the icon and description for a weather code.
func LookupCondition(code int) Condition {
	if c, ok := conditions[code]; ok {
		return c
	}
	return UnknownCondition
}
