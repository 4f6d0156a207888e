// Пакет clock — нормализация временных меток фичажей.
// Вычисляет пару (локальное время, UTC) для текущего момента и UTC для
// ретроактивных ручных меток через наблюдаемое сейчас смещение.
package clock

import (
	"fmt"
	"time"
)

// Форматы временных значений.
const (
	// LayoutManual — формат ручного ввода пары Entrada/Salida.
	LayoutManual = "2006-01-02 15:04"
	// LayoutStore — формат временных меток в таблицах хранилища.
	LayoutStore = "2006-01-02 15:04:05"
	// LayoutFecha — формат дат без компонента времени.
	LayoutFecha = "2006-01-02"
)

// Clock — источник текущего времени с секундной точностью.
type Clock struct {
	now func() time.Time
}

// New создаёт Clock на системных часах.
func New() *Clock {
	return &Clock{now: time.Now}
}

// NewWithNow создаёт Clock с подменённым источником времени.
// Используется в тестах.
func NewWithNow(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// NowPair возвращает текущий момент как пару (локальное, UTC),
// усечённую до целых секунд. Оба значения обозначают один и тот же
// физический момент.
func (c *Clock) NowPair() (local, utc time.Time) {
	t := c.now().Truncate(time.Second)
	return t, t.UTC()
}

// ToUTC вычисляет UTC для ручной локальной метки local, применяя смещение
// (refLocal - refUTC), измеренное по настенным часам в момент запроса.
//
// Известное ограничение: смещение берётся текущее, а не действовавшее в
// момент, который описывает метка. Через границу перехода на летнее время
// результат отличается на час. Исправление без миграции уже сохранённых
// записей сделало бы историю противоречивой, поэтому поведение сохранено;
// замена — поиск по базе часовых поясов по локали записи.
func (c *Clock) ToUTC(local, refLocal, refUTC time.Time) time.Time {
	offset := wall(refLocal).Sub(wall(refUTC))
	return wall(local).Add(-offset)
}

// ParseLocal разбирает ручную метку формата "YYYY-MM-DD HH:MM".
// Секунды результата всегда :00.
func ParseLocal(text string) (time.Time, error) {
	t, err := time.Parse(LayoutManual, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("marca de tiempo %q no coincide con 'YYYY-MM-DD HH:MM'", text)
	}
	return t, nil
}

// ParseFecha разбирает дату формата "YYYY-MM-DD".
func ParseFecha(text string) (time.Time, error) {
	t, err := time.Parse(LayoutFecha, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q no coincide con 'YYYY-MM-DD'", text)
	}
	return t, nil
}

// FormatStore форматирует значение для колонок fecha_local / fecha_utc.
func FormatStore(t time.Time) string {
	return t.Format(LayoutStore)
}

// wall переинтерпретирует настенные часы t как UTC, отбрасывая зону.
// Арифметика смещений ведётся над настенными значениями, как их видит
// пользователь, а не над абсолютными моментами.
func wall(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
