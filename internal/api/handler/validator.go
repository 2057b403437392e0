package handler

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/rhazelina/TA-12-sub000/internal/dto"
)

// RegisterValidators 在 gin 的绑定引擎上注册自定义规则
//
//	notblank: 去除空白后非空
//	datestr:  YYYY-MM-DD 日期
//
// 校验错误中的字段名取 json 标签
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("binding 引擎不是 validator/v10")
	}

	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return err
	}
	return v.RegisterValidation("datestr", dateString)
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func dateString(fl validator.FieldLevel) bool {
	_, err := time.Parse(dto.DateLayout, fl.Field().String())
	return err == nil
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}
