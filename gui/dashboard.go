package gui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"imagescraper/imagesearch/types"
)

// SearchService выполняет поиск изображений для дашборда
type SearchService interface {
	Search(ctx context.Context, req *types.SearchRequest) ([]types.NormalizedImage, error)
}

// noneOption значение фильтра "не задан"
const noneOption = "None"

const searchTimeout = 2 * time.Minute

var (
	regionOptions     = []string{"wt-wt", "us-en", "uk-en", "es-es", "fr-fr"}
	safeSearchOptions = []string{"off", "moderate", "on"}
	timeLimitOptions  = []string{noneOption, "d", "w", "m", "y"}
	backendOptions    = []string{"auto", "api", "html"}
	sizeOptions       = []string{noneOption, "Small", "Medium", "Large", "Wallpaper"}
	colorOptions      = []string{noneOption, "Monochrome", "Red", "Orange", "Yellow", "Green", "Blue", "Purple", "Pink", "Brown", "Black", "Gray", "Teal", "White"}
	typeOptions       = []string{noneOption, "Photo", "Clipart", "Gif", "Transparent", "Line"}
	layoutOptions     = []string{noneOption, "Square", "Tall", "Wide"}
	licenseOptions    = []string{noneOption, "Public", "Share", "ShareCommercially", "Modify", "ModifyCommercially"}
)

// Dashboard десктопный интерфейс поиска изображений
type Dashboard struct {
	service SearchService

	app    fyne.App
	window fyne.Window

	queryEntry      *widget.Entry
	maxResultsEntry *widget.Entry
	pageEntry       *widget.Entry
	regionSelect    *widget.Select
	safeSelect      *widget.Select
	timeSelect      *widget.Select
	backendSelect   *widget.Select
	sizeSelect      *widget.Select
	colorSelect     *widget.Select
	typeSelect      *widget.Select
	layoutSelect    *widget.Select
	licenseSelect   *widget.Select
	validateCheck   *widget.Check
	searchButton    *widget.Button
	exportButton    *widget.Button

	statusLabel *widget.Label
	resultsBox  *fyne.Container

	thumbnailClient *http.Client

	results   []types.NormalizedImage
	lastQuery string
}

// NewDashboard создает окно дашборда поверх поискового сервиса
func NewDashboard(service SearchService) *Dashboard {
	d := &Dashboard{
		service: service,
		app:     app.NewWithID("imagescraper.dashboard"),
		thumbnailClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	d.window = d.app.NewWindow("Image Scraper")
	d.window.Resize(fyne.NewSize(1200, 800))

	d.buildWidgets()
	d.window.SetContent(d.buildLayout())

	return d
}

// Run показывает окно и блокируется до закрытия
func (d *Dashboard) Run() {
	d.window.ShowAndRun()
}

func (d *Dashboard) buildWidgets() {
	d.queryEntry = widget.NewEntry()
	d.queryEntry.SetText("butterfly")
	d.queryEntry.SetPlaceHolder("Search keywords")

	d.maxResultsEntry = widget.NewEntry()
	d.maxResultsEntry.SetText("10")

	d.pageEntry = widget.NewEntry()
	d.pageEntry.SetText("1")

	d.regionSelect = widget.NewSelect(regionOptions, nil)
	d.regionSelect.SetSelected("us-en")

	d.safeSelect = widget.NewSelect(safeSearchOptions, nil)
	d.safeSelect.SetSelected("off")

	d.timeSelect = widget.NewSelect(timeLimitOptions, nil)
	d.timeSelect.SetSelected(noneOption)

	d.backendSelect = widget.NewSelect(backendOptions, nil)
	d.backendSelect.SetSelected("auto")

	d.sizeSelect = widget.NewSelect(sizeOptions, nil)
	d.sizeSelect.SetSelected(noneOption)

	d.colorSelect = widget.NewSelect(colorOptions, nil)
	d.colorSelect.SetSelected(noneOption)

	d.typeSelect = widget.NewSelect(typeOptions, nil)
	d.typeSelect.SetSelected(noneOption)

	d.layoutSelect = widget.NewSelect(layoutOptions, nil)
	d.layoutSelect.SetSelected(noneOption)

	d.licenseSelect = widget.NewSelect(licenseOptions, nil)
	d.licenseSelect.SetSelected(noneOption)

	d.validateCheck = widget.NewCheck("Validate images", nil)
	d.validateCheck.SetChecked(true)

	d.searchButton = widget.NewButton("Search Images", d.onSearch)
	d.exportButton = widget.NewButton("Export JSON", d.onExport)
	d.exportButton.Disable()

	d.statusLabel = widget.NewLabel("Configure your search and press Search Images.")
	d.statusLabel.Wrapping = fyne.TextWrapWord

	d.resultsBox = container.NewVBox()
}

func (d *Dashboard) buildLayout() fyne.CanvasObject {
	form := widget.NewForm(
		widget.NewFormItem("Keywords", d.queryEntry),
		widget.NewFormItem("Max results", d.maxResultsEntry),
		widget.NewFormItem("Page", d.pageEntry),
		widget.NewFormItem("Region", d.regionSelect),
		widget.NewFormItem("Safe search", d.safeSelect),
		widget.NewFormItem("Time limit", d.timeSelect),
		widget.NewFormItem("Backend", d.backendSelect),
		widget.NewFormItem("Size", d.sizeSelect),
		widget.NewFormItem("Color", d.colorSelect),
		widget.NewFormItem("Type", d.typeSelect),
		widget.NewFormItem("Layout", d.layoutSelect),
		widget.NewFormItem("License", d.licenseSelect),
	)

	sidebar := container.NewVBox(
		widget.NewLabelWithStyle("Search Settings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		d.validateCheck,
		d.searchButton,
		d.exportButton,
	)

	results := container.NewBorder(d.statusLabel, nil, nil, nil, container.NewVScroll(d.resultsBox))

	split := container.NewHSplit(container.NewVScroll(sidebar), results)
	split.SetOffset(0.28)
	return split
}

// buildRequest собирает запрос из текущего состояния формы
func (d *Dashboard) buildRequest() (*types.SearchRequest, error) {
	query := strings.TrimSpace(d.queryEntry.Text)
	if query == "" {
		return nil, fmt.Errorf("enter search keywords")
	}

	maxResults, err := strconv.Atoi(strings.TrimSpace(d.maxResultsEntry.Text))
	if err != nil || maxResults < 1 || maxResults > 100 {
		return nil, fmt.Errorf("max results must be a number between 1 and 100")
	}

	page, err := strconv.Atoi(strings.TrimSpace(d.pageEntry.Text))
	if err != nil || page < 1 {
		return nil, fmt.Errorf("page must be a positive number")
	}

	req := &types.SearchRequest{
		Query:          query,
		MaxResults:     maxResults,
		Region:         d.regionSelect.Selected,
		SafeSearch:     d.safeSelect.Selected,
		TimeLimit:      filterValue(d.timeSelect.Selected),
		Page:           page,
		Backend:        d.backendSelect.Selected,
		Size:           filterValue(d.sizeSelect.Selected),
		Color:          filterValue(d.colorSelect.Selected),
		TypeImage:      filterValue(d.typeSelect.Selected),
		Layout:         filterValue(d.layoutSelect.Selected),
		LicenseImage:   filterValue(d.licenseSelect.Selected),
		ValidateImages: d.validateCheck.Checked,
	}
	return req, nil
}

// filterValue превращает "None" из селекта в пустой фильтр
func filterValue(selected string) string {
	if selected == noneOption {
		return ""
	}
	return selected
}

func (d *Dashboard) onSearch() {
	req, err := d.buildRequest()
	if err != nil {
		d.statusLabel.SetText(err.Error())
		return
	}

	d.searchButton.Disable()
	d.statusLabel.SetText(fmt.Sprintf("Searching for %q...", req.Query))

	// Поиск идет в фоне, интерфейс обновляется через fyne.Do
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		images, err := d.service.Search(ctx, req)

		fyne.Do(func() {
			d.searchButton.Enable()

			if err != nil {
				d.results = nil
				d.exportButton.Disable()
				d.resultsBox.RemoveAll()
				d.statusLabel.SetText("Search failed: " + err.Error())
				return
			}

			if len(images) == 0 {
				d.results = nil
				d.exportButton.Disable()
				d.resultsBox.RemoveAll()
				d.statusLabel.SetText("No images found. Try different keywords.")
				return
			}

			d.results = images
			d.lastQuery = req.Query
			d.exportButton.Enable()
			d.statusLabel.SetText(fmt.Sprintf("Found %d images for %q.", len(images), req.Query))
			d.showResults(images)
		})
	}()
}

// showResults перестраивает сетку миниатюр под новый результат
func (d *Dashboard) showResults(images []types.NormalizedImage) {
	d.resultsBox.RemoveAll()

	grid := container.NewGridWithColumns(3)
	for _, img := range images {
		grid.Add(d.resultCard(img))
	}
	d.resultsBox.Add(grid)
	d.resultsBox.Refresh()
}

// resultCard карточка одного изображения с миниатюрой и деталями
func (d *Dashboard) resultCard(img types.NormalizedImage) fyne.CanvasObject {
	thumbnail := container.NewStack(widget.NewLabel("Loading..."))
	d.loadThumbnail(img, thumbnail)

	details := widget.NewLabel(fmt.Sprintf(
		"Source: %s\nWebsite: %s\nDimensions: %d x %d px\nPosition: %d",
		img.Source, img.Website.Name, img.Dimensions.Width, img.Dimensions.Height, img.Position,
	))
	details.Wrapping = fyne.TextWrapWord

	content := container.NewVBox(thumbnail, details)
	if link := imageLink(img); link != nil {
		content.Add(widget.NewHyperlink("Open image", link))
	}

	title := img.Alt
	if title == "" {
		title = img.Title
	}
	return widget.NewCard(fmt.Sprintf("Image #%d", img.Position), title, content)
}

// loadThumbnail загружает миниатюру в фоне и подставляет её в карточку
func (d *Dashboard) loadThumbnail(img types.NormalizedImage, slot *fyne.Container) {
	thumbURL := img.Thumbnail
	if thumbURL == "" {
		thumbURL = img.URL
	}
	if thumbURL == "" {
		return
	}

	go func() {
		resp, err := d.thumbnailClient.Get(thumbURL)
		if err != nil {
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil || len(data) == 0 {
			return
		}

		resource := fyne.NewStaticResource(fmt.Sprintf("thumbnail-%d", img.Position), data)

		fyne.Do(func() {
			picture := canvas.NewImageFromResource(resource)
			picture.FillMode = canvas.ImageFillContain
			picture.SetMinSize(fyne.NewSize(240, 180))

			slot.RemoveAll()
			slot.Add(picture)
			slot.Refresh()
		})
	}()
}

func imageLink(img types.NormalizedImage) *url.URL {
	raw := img.URL
	if raw == "" {
		raw = img.Thumbnail
	}
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return parsed
}

func (d *Dashboard) onExport() {
	if len(d.results) == 0 {
		return
	}

	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			d.statusLabel.SetText("Export failed: " + err.Error())
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		payload := map[string]interface{}{"images": d.results}
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(payload); err != nil {
			d.statusLabel.SetText("Export failed: " + err.Error())
			return
		}
		d.statusLabel.SetText(fmt.Sprintf("Exported %d images to %s.", len(d.results), writer.URI().Name()))
	}, d.window)
}
