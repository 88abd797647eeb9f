package v1

import (
	"net/url"
	"path"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shenikar/jalanguard/internal/config"
	"github.com/shenikar/jalanguard/internal/models"
	"github.com/shenikar/jalanguard/internal/storage"
)

func newValidator(cfg *config.Config) *validator.Validate {
	v := validator.New()

	// Имена полей в ошибках берем из json тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Не переданное или null поле валидатор видит как пустое, правила применяются к значению
	v.RegisterCustomTypeFunc(optionalValue[string], models.Optional[string]{})
	v.RegisterCustomTypeFunc(optionalValue[models.ReportStatus], models.Optional[models.ReportStatus]{})

	_ = v.RegisterValidation("image_ref", imageRef(cfg))
	return v
}

func optionalValue[T any](field reflect.Value) any {
	opt, ok := field.Interface().(models.Optional[T])
	if !ok || !opt.Present() {
		return nil
	}
	return opt.Value
}

// maxImageRefLength - размер колонки report_images.image_url
const maxImageRefLength = 500

// imageRef принимает URL или путь к файлу с разрешенным расширением
// либо data URI вида data:image/<ext>;base64,...
// Data URI до сохранения в бд заменяется ссылкой на загруженный файл, поэтому его длина не ограничена колонкой.
func imageRef(cfg *config.Config) validator.Func {
	return func(fl validator.FieldLevel) bool {
		ref := strings.TrimSpace(fl.Field().String())
		if ref == "" {
			return false
		}

		if strings.HasPrefix(ref, "data:") {
			ext, _, ok := storage.ParseDataURI(ref)
			return ok && cfg.IsExtensionAllowed(ext)
		}

		if len(ref) > maxImageRefLength {
			return false
		}
		p := ref
		if u, err := url.Parse(ref); err == nil {
			p = u.Path
		}
		ext := path.Ext(p)
		return ext == "" || cfg.IsExtensionAllowed(ext)
	}
}
