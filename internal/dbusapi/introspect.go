package dbusapi

import "github.com/godbus/dbus/v5/introspect"

func in(name, typ string) introspect.Arg {
	return introspect.Arg{Name: name, Type: typ, Direction: "in"}
}

func out(name, typ string) introspect.Arg {
	return introspect.Arg{Name: name, Type: typ, Direction: "out"}
}

func sig(name, typ string) introspect.Arg {
	return introspect.Arg{Name: name, Type: typ}
}

var controlInterface = introspect.Interface{
	Name: Interface,
	Methods: []introspect.Method{
		{Name: "PlayStart", Args: []introspect.Arg{
			in("path", "s"), in("hour", "y"), in("min", "y"), in("sec", "y"),
			in("is_video", "b"), in("play_id", "i"), in("keep_pause", "b"),
			out("ret", "i"), out("current_play_id", "i"),
		}},
		{Name: "PlayStop", Args: []introspect.Arg{
			in("play_id", "i"), out("ret", "i"),
		}},
		{Name: "PlayPause", Args: []introspect.Arg{
			in("play_id", "i"), out("ret", "i"),
		}},
		{Name: "PlayResume", Args: []introspect.Arg{
			in("play_id", "i"), out("ret", "i"),
		}},
		{Name: "PlaySeek", Args: []introspect.Arg{
			in("hour", "y"), in("min", "y"), in("sec", "y"),
			in("play_id", "i"), out("ret", "i"),
		}},
		{Name: "PlayNormal", Args: []introspect.Arg{
			in("play_id", "i"), out("ret", "i"),
		}},
		{Name: "PlayFastForward", Args: []introspect.Arg{
			in("play_id", "i"), out("ret", "i"),
		}},
		{Name: "PlayFastBackward", Args: []introspect.Arg{
			in("play_id", "i"), out("ret", "i"),
		}},
		{Name: "PlayTurboFastForward", Args: []introspect.Arg{
			in("play_id", "i"), out("ret", "i"),
		}},
		{Name: "PlayTurboFastBackward", Args: []introspect.Arg{
			in("play_id", "i"), out("ret", "i"),
		}},
		{Name: "SetDisplay", Args: []introspect.Arg{
			in("x", "u"), in("y", "u"), in("width", "u"), in("height", "u"),
		}},
		{Name: "SetDualDisplay", Args: []introspect.Arg{
			in("x", "u"), in("y", "u"), in("width", "u"), in("height", "u"),
		}},
		{Name: "SetMargin", Args: []introspect.Arg{
			in("width", "u"), in("height", "u"),
		}},
		{Name: "SetDebugLevel", Args: []introspect.Arg{
			in("level", "i"),
		}},
		{Name: "GetStatus", Args: []introspect.Arg{
			out("busy", "b"),
		}},
		{Name: "GetPlayID", Args: []introspect.Arg{
			out("play_id", "i"),
		}},
		{Name: "GetAlbumArtKey", Args: []introspect.Arg{
			out("key", "i"), out("size", "i"),
		}},
	},
	Signals: []introspect.Signal{
		{Name: sigPlaying, Args: []introspect.Arg{sig("play_id", "i")}},
		{Name: sigStopped, Args: []introspect.Arg{sig("play_id", "i")}},
		{Name: sigPaused, Args: []introspect.Arg{sig("play_id", "i")}},
		{Name: sigDuration, Args: []introspect.Arg{
			sig("hour", "y"), sig("min", "y"), sig("sec", "y"), sig("play_id", "i"),
		}},
		{Name: sigPlayPosition, Args: []introspect.Arg{
			sig("hour", "y"), sig("min", "y"), sig("sec", "y"), sig("play_id", "i"),
		}},
		{Name: sigTagInfo, Args: []introspect.Arg{
			sig("category", "i"), sig("text", "s"), sig("play_id", "i"),
		}},
		{Name: sigAlbumArtReady, Args: []introspect.Arg{
			sig("play_id", "i"), sig("length", "u"),
		}},
		{Name: sigPlayEnded, Args: []introspect.Arg{sig("play_id", "i")}},
		{Name: sigSeekCompleted, Args: []introspect.Arg{
			sig("hour", "y"), sig("min", "y"), sig("sec", "y"), sig("play_id", "i"),
		}},
		{Name: sigError, Args: []introspect.Arg{
			sig("code", "i"), sig("play_id", "i"),
		}},
		{Name: sigSamplerate, Args: []introspect.Arg{
			sig("rate", "i"), sig("play_id", "i"),
		}},
	},
}

var introspectNode = &introspect.Node{
	Name: ObjectPath,
	Interfaces: []introspect.Interface{
		introspect.IntrospectData,
		controlInterface,
	},
}
