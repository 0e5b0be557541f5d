package errorx

import "fmt"

// 常用业务错误构造函数，details 字段与错误码一一对应

func InvalidManifestFormat(number string) *Error {
	return New(CodeInvalidManifestFormat,
		fmt.Sprintf("Formato de manifiesto inválido: %s. Debe contener solo números.", number)).
		WithDetail("manifiesto", number)
}

func InvalidGuideFormat(guide string) *Error {
	return New(CodeInvalidGuideFormat,
		fmt.Sprintf("Formato de guía courier inválido: %s. Debe contener solo letras y números.", guide)).
		WithDetail("guia", guide)
}

func InvalidMotive(motive string, validValues []string) *Error {
	return New(CodeInvalidMotive,
		fmt.Sprintf("Motivo de marca inválido: %s", motive)).
		WithDetail("motivo", motive).
		WithDetail("validValues", validValues)
}

func EmptyGuideSet() *Error {
	return New(CodeEmptyGuideSet, "Debe seleccionar al menos una guía")
}

func DiscardReasonTooShort(minLen int) *Error {
	return New(CodeDiscardReasonTooShort,
		fmt.Sprintf("El motivo de descarte debe tener al menos %d caracteres", minLen)).
		WithDetail("minLength", minLen)
}

func ManifestNotFound(number string) *Error {
	return New(CodeManifestNotFound,
		fmt.Sprintf("No se encontró manifiesto con número: %s", number)).
		WithDetail("manifiesto", number)
}

func GuideNotFound(guideID int64) *Error {
	return New(CodeGuideNotFound,
		fmt.Sprintf("No se encontró guía con ID: %d", guideID)).
		WithDetail("idGuia", guideID)
}

func ManifestNotConsolidated(manifestID int64) *Error {
	return New(CodeManifestNotConsolidated,
		fmt.Sprintf("El manifiesto %d no se encuentra consolidado", manifestID)).
		WithDetail("idManifiesto", manifestID)
}

// DatabaseConnection 连接/认证层故障，标记为可重试
func DatabaseConnection(cause error) *Error {
	e := Wrap(CodeDatabaseConnection, "Error de conexión a la base de datos", cause)
	e.Retryable = true
	if cause != nil {
		e.WithDetail("originalError", cause.Error())
	}
	return e
}
