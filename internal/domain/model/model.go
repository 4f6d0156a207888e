// Пакет model — доменные модели записей учёта присутствия:
// фичажи (clock-in/clock-out), заявки на отпуск и уведомления о больничных.
// Имена JSON-полей совпадают с колонками таблиц Supabase.
package model

import "fmt"

// TipoFichaje — тип события фичажа. Закрытый enum: Entrada | Salida.
type TipoFichaje string

const (
	TipoEntrada TipoFichaje = "Entrada"
	TipoSalida  TipoFichaje = "Salida"
)

// ParseTipoFichaje валидирует строку против закрытого enum.
// Произвольные строки отклоняются.
func ParseTipoFichaje(s string) (TipoFichaje, error) {
	switch TipoFichaje(s) {
	case TipoEntrada, TipoSalida:
		return TipoFichaje(s), nil
	default:
		return "", fmt.Errorf("tipo de fichaje no válido: %q (permitidos: Entrada, Salida)", s)
	}
}

// Fuente — источник фичажа.
type Fuente string

const (
	FuenteMovil       Fuente = "movil"
	FuenteWeb         Fuente = "web"
	FuenteAjusteMovil Fuente = "ajuste_movil"
)

// ParseFuente валидирует источник. Пустая строка — значение по умолчанию movil.
func ParseFuente(s string) (Fuente, error) {
	if s == "" {
		return FuenteMovil, nil
	}
	switch Fuente(s) {
	case FuenteMovil, FuenteWeb, FuenteAjusteMovil:
		return Fuente(s), nil
	default:
		return "", fmt.Errorf("fuente no válida: %q (permitidas: movil, web, ajuste_movil)", s)
	}
}

// EstadoVacacion — жизненный цикл заявки на отпуск.
// Переходы состояний выполняются вне этого сервиса.
type EstadoVacacion string

const (
	VacacionPendiente EstadoVacacion = "Pendiente"
	VacacionAprobada  EstadoVacacion = "Aprobada"
	VacacionRechazada EstadoVacacion = "Rechazada"
)

// EstadoBaja — жизненный цикл уведомления о больничном.
type EstadoBaja string

// BajaNotificada — начальное состояние уведомления.
const BajaNotificada EstadoBaja = "Notificada"

// Fichaje — одно событие clock-in/clock-out.
// FechaLocal и FechaUTC обозначают один и тот же физический момент,
// выраженный в локальных и UTC часах соответственно ("2006-01-02 15:04:05").
// CreatedAtUTC назначается хранилищем и служит источником истины для
// сортировки в запросах.
type Fichaje struct {
	ID            int64       `json:"id,omitempty"`
	UserID        string      `json:"user_id"`
	Empleado      *string     `json:"empleado"`
	FechaLocal    string      `json:"fecha_local"`
	FechaUTC      string      `json:"fecha_utc"`
	Tipo          TipoFichaje `json:"tipo"`
	Observaciones string      `json:"observaciones"`
	Fuente        Fuente      `json:"fuente"`
	CreatedAtUTC  string      `json:"created_at_utc,omitempty"`
}

// Vacacion — заявка на отпуск.
// Dias принимается как прислал клиент и не пересчитывается из диапазона дат.
type Vacacion struct {
	ID          int64          `json:"id,omitempty"`
	UserID      string         `json:"user_id"`
	Usuario     *string        `json:"usuario"`
	FechaInicio string         `json:"fecha_inicio"`
	FechaFin    string         `json:"fecha_fin"`
	Dias        int            `json:"dias"`
	Comentario  string         `json:"comentario"`
	Estado      EstadoVacacion `json:"estado"`
}

// Baja — уведомление о больничном.
// Archivos — упорядоченный список публичных URL вложений, разделённых ";".
// FechaFin == nil означает открытый больничный.
type Baja struct {
	ID          int64      `json:"id,omitempty"`
	UserID      string     `json:"user_id"`
	Usuario     *string    `json:"usuario"`
	Tipo        string     `json:"tipo"`
	FechaInicio string     `json:"fecha_inicio"`
	FechaFin    *string    `json:"fecha_fin"`
	Descripcion string     `json:"descripcion"`
	Archivos    string     `json:"archivos"`
	Estado      EstadoBaja `json:"estado"`
}

// ArchivosSeparador — разделитель URL вложений в поле Archivos.
// Не встречается в URL Supabase Storage.
const ArchivosSeparador = ";"
