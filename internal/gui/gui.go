package gui

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/forPelevin/ytpgen/internal/config"
	"github.com/forPelevin/ytpgen/internal/domain/effects"
	"github.com/forPelevin/ytpgen/internal/pipeline"
	"github.com/forPelevin/ytpgen/internal/ports"
	"github.com/forPelevin/ytpgen/internal/types"
)

type Options struct {
	Settings   *config.Config
	ConfigPath string
	Log        zerolog.Logger
}

var videoExtensions = []string{".mp4", ".mov", ".mkv", ".avi", ".webm"}

// Run opens the window and blocks until it is closed. Pipeline runs happen
// on a worker goroutine; every widget update goes through fyne.Do.
func Run(ctx context.Context, opts Options) error {
	if opts.Settings == nil {
		return errors.New("gui: settings are required")
	}

	a := app.NewWithID("ytpgen")
	w := a.NewWindow("ytpgen")
	w.Resize(fyne.NewSize(720, 640))

	f := newForm(opts.Settings.EffectChain)
	logs := &logLines{limit: 500}

	inputEntry := widget.NewEntry()
	inputEntry.SetPlaceHolder("Input video")
	outputEntry := widget.NewEntry()
	outputEntry.SetPlaceHolder("Output file (optional)")
	dryRun := widget.NewCheck("Dry run", nil)

	logView := widget.NewMultiLineEntry()
	logView.Wrapping = fyne.TextWrapWord
	appendLog := func(line string) {
		logView.SetText(logs.add(line))
		logView.CursorRow = len(logs.lines)
	}

	browseIn := widget.NewButton("Browse…", func() {
		fd := dialog.NewFileOpen(func(ur fyne.URIReadCloser, err error) {
			if err != nil || ur == nil {
				return
			}
			defer ur.Close()
			inputEntry.SetText(ur.URI().Path())
		}, w)
		fd.SetFilter(storage.NewExtensionFileFilter(videoExtensions))
		fd.Show()
	})
	browseOut := widget.NewButton("Save as…", func() {
		fd := dialog.NewFileSave(func(uw fyne.URIWriteCloser, err error) {
			if err != nil || uw == nil {
				return
			}
			path := uw.URI().Path()
			_ = uw.Close()
			outputEntry.SetText(path)
		}, w)
		fd.SetFileName("ytp.mp4")
		fd.Show()
	})

	rows := container.NewVBox()
	for i, s := range f.rows {
		probLabel := widget.NewLabel(fmt.Sprintf("%.2f", s.Probability))
		enabled := widget.NewCheck(effects.DisplayName(s.Name), func(on bool) { f.setEnabled(i, on) })
		enabled.SetChecked(s.Enabled)
		slider := widget.NewSlider(0, 1)
		slider.Step = 0.01
		slider.SetValue(s.Probability)
		slider.OnChanged = func(v float64) {
			f.setProbability(i, v)
			probLabel.SetText(fmt.Sprintf("%.2f", v))
		}
		rows.Add(container.NewBorder(nil, nil, enabled, probLabel, slider))
	}

	var runBtn *widget.Button
	runBtn = widget.NewButton("Run", func() {
		input := inputEntry.Text
		if input == "" {
			dialog.ShowError(errors.New("choose an input video first"), w)
			return
		}
		cfg := pipeline.Config{
			InputPath:  input,
			OutputPath: outputEntry.Text,
			DryRun:     dryRun.Checked,
			Settings:   opts.Settings,
			Chain:      f.chain(),
			Log:        opts.Log,
			Progress: ports.ProgressFunc(func(p types.Progress) {
				line := fmt.Sprintf("[%d/%d] %s", p.Stage, p.Total, p.Message)
				fyne.Do(func() { appendLog(line) })
			}),
		}
		if err := cfg.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}

		runBtn.Disable()
		go func() {
			_, err := pipeline.Run(ctx, cfg)
			fyne.Do(func() {
				runBtn.Enable()
				if err != nil {
					appendLog("ERROR: " + err.Error())
					dialog.ShowError(err, w)
				}
			})
		}()
	})

	saveBtn := widget.NewButton("Save config", func() {
		path := opts.ConfigPath
		if path == "" {
			p, err := config.DefaultConfigPath()
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			path = p
		}
		updated := *opts.Settings
		updated.EffectChain = f.chain()
		if err := updated.Save(path); err != nil {
			dialog.ShowError(err, w)
			return
		}
		opts.Settings.EffectChain = updated.EffectChain
		appendLog("Saved config: " + path)
	})

	paths := widget.NewForm(
		widget.NewFormItem("Input", container.NewBorder(nil, nil, nil, browseIn, inputEntry)),
		widget.NewFormItem("Output", container.NewBorder(nil, nil, nil, browseOut, outputEntry)),
	)
	top := container.NewVBox(paths, dryRun)
	bottom := container.NewVBox(container.NewHBox(runBtn, saveBtn))
	middle := container.NewVSplit(container.NewVScroll(rows), logView)
	middle.SetOffset(0.6)

	w.SetContent(container.NewBorder(top, bottom, nil, nil, middle))
	w.ShowAndRun()
	return nil
}
