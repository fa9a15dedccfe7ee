package policy

import "errors"

var (
	// ErrPolicyNotFound возвращается, когда политика возврата не найдена
	ErrPolicyNotFound = errors.New("policy.repository: refund policy not found")

	// ErrPolicyExists возвращается, когда политика для этого типа услуги уже создана
	ErrPolicyExists = errors.New("policy.repository: refund policy already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("policy.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("policy.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("policy.repository: failed to scan row")
)
