package imagesearch

import (
	"imagescraper/imagesearch/types"
)

// BuildSearchParams собирает карту параметров для вызова провайдера.
// Ключи совпадают с именами полей запроса. Отсутствующие опциональные фильтры
// не попадают в карту вовсе (не передаются как пустая строка или null), чтобы
// провайдер применил собственные значения по умолчанию.
func BuildSearchParams(req *types.SearchRequest) map[string]interface{} {
	params := map[string]interface{}{
		"query":       req.Query,
		"region":      req.Region,
		"safesearch":  req.SafeSearch,
		"page":        req.Page,
		"backend":     req.Backend,
		"max_results": req.MaxResults,
	}

	if req.TimeLimit != "" {
		params["timelimit"] = req.TimeLimit
	}
	if req.Size != "" {
		params["size"] = req.Size
	}
	if req.Color != "" {
		params["color"] = req.Color
	}
	if req.TypeImage != "" {
		params["type_image"] = req.TypeImage
	}
	if req.Layout != "" {
		params["layout"] = req.Layout
	}
	if req.LicenseImage != "" {
		params["license_image"] = req.LicenseImage
	}

	return params
}
