package emulator

// DemoSource paints random colours across the display window, forever.
const DemoSource = `; Random colours
START:  LDA #<DISPLAY
        STA $00
        LDA #>DISPLAY
        STA $01
        LDY #$00
LOOP:   LDA RANDOM
        STA ($00),Y
        INY
        BNE LOOP
        INC $01
        BNE LOOP
        JMP START
`
