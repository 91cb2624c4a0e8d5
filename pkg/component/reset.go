package component

import "sort"

// PropertyDefaults returns the defaults declared by the current form.
func (c *Component) PropertyDefaults() (map[string]any, error) {
	f, err := c.Form()
	if err != nil {
		return nil, err
	}
	return f.Defaults(), nil
}

// Reset returns the named properties to their baseline and then applies the
// form default of each one that declares it. With no names, every field
// declaring a default is reset; other properties are left alone.
func (c *Component) Reset(properties ...string) error {
	defaults, err := c.PropertyDefaults()
	if err != nil {
		return err
	}

	if len(properties) == 0 {
		properties = make([]string, 0, len(defaults))
		for name := range defaults {
			properties = append(properties, name)
		}
		sort.Strings(properties)
	}
	if len(properties) == 0 {
		return nil
	}

	c.props.Reset(properties...)

	fill := make(map[string]any)
	for _, name := range properties {
		if value, ok := defaults[name]; ok {
			fill[name] = value
		}
	}
	c.props.Fill(fill)
	return nil
}

// ResetAll returns every property to its baseline, clears the error bag and
// applies all form defaults.
func (c *Component) ResetAll() error {
	defaults, err := c.PropertyDefaults()
	if err != nil {
		return err
	}
	c.props.Reset()
	c.errors.Clear()
	c.props.Fill(defaults)
	return nil
}

// FillWithFormDefaults applies every form default without resetting first.
func (c *Component) FillWithFormDefaults() error {
	defaults, err := c.PropertyDefaults()
	if err != nil {
		return err
	}
	c.props.Fill(defaults)
	return nil
}
