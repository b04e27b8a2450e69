package ftp

type dataConnErr string

func (e dataConnErr) Error() string { return string(e) }

const readClosedDataconn = dataConnErr("dataconn is closed, no further reads are possible")
