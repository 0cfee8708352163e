package server

import (
	"github.com/kataras/iris/v12"

	"github.com/example/goshop/internal/errs"
)

// statusOf 业务错误类别到 HTTP 状态码的映射。
// 校验失败返回 403 是沿用原系统的约定（而不是 422/400）。
func statusOf(err error) int {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return iris.StatusForbidden
	case errs.KindNotFound:
		return iris.StatusNotFound
	case errs.KindForbidden:
		return iris.StatusForbidden
	case errs.KindUnauthorized:
		return iris.StatusUnauthorized
	case errs.KindInsufficientStock, errs.KindInvalidTransition, errs.KindEmptyCart:
		return iris.StatusBadRequest
	default:
		return iris.StatusInternalServerError
	}
}

func ok(ctx iris.Context, data interface{}) {
	ctx.JSON(iris.Map{"code": 0, "data": data})
}

func created(ctx iris.Context, data interface{}) {
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"code": 0, "data": data})
}

func fail(ctx iris.Context, err error) {
	status := statusOf(err)
	ctx.StopWithJSON(status, iris.Map{"code": status, "msg": err.Error()})
}

func currentUserID(ctx iris.Context) int64 {
	return ctx.Values().GetInt64Default("user_id", 0)
}

func currentRole(ctx iris.Context) string {
	return ctx.Values().GetStringDefault("role", "")
}
