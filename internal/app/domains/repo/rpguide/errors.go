package rpguide

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"

	"courier/marcas/internal/app/pkg/errorx"
)

// MySQL 连接/认证类错误号
var connectionErrNumbers = map[uint16]struct{}{
	1040: {}, // ER_CON_COUNT_ERROR
	1044: {}, // ER_DBACCESS_DENIED_ERROR
	1045: {}, // ER_ACCESS_DENIED_ERROR
	1129: {}, // ER_HOST_IS_BLOCKED
	1130: {}, // ER_HOST_NOT_PRIVILEGED
	1203: {}, // ER_TOO_MANY_USER_CONNECTIONS
}

// classifyError 区分基础设施故障（可重试）与其他存储错误
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errorx.As(err); ok {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		e := errorx.Wrap(errorx.CodeRemoteCallFailed, "Tiempo de espera agotado en la base de datos", err)
		e.Retryable = true
		return e
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return errorx.DatabaseConnection(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return errorx.DatabaseConnection(err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if _, ok := connectionErrNumbers[myErr.Number]; ok {
			return errorx.DatabaseConnection(err)
		}
	}

	return errorx.Wrap(errorx.CodeRemoteCallFailed, "Error en la llamada a la base de datos", err)
}
