package views

// FormValues is the raw content of the generation form
type FormValues struct {
	CountA    string
	CountB    string
	Symbology string
	Directory string
	Prefix    string
}

// Handlers are the controller callbacks the view invokes on user actions
type Handlers struct {
	Generate      func(FormValues)
	ToggleAll     func()
	Select        func(index int, selected bool)
	SaveSelected  func(directory, prefix string)
	SaveAll       func(directory, prefix string)
	SaveSheet     func(directory, prefix string)
	GenerateAgain func()
}
